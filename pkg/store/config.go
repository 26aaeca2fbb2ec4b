package store

import (
	"log"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config supplies the client's operating parameters.
type Config interface {
	Endpoint() string
	ActorID() string
	BasePath() string
}

func LoadConfig() (Config, error) {
	// Walk the file tree from here backwards looking for a .prayteam file.
	viper.SetDefault("path", "~/.prayteam.db")
	viper.SetDefault("endpoint", "")
	viper.SetDefault("actor", "")
	viper.SetConfigName(".prayteam") // .yaml is implicit
	viper.SetEnvPrefix("PRAYTEAM")
	viper.AutomaticEnv()

	if override := os.Getenv("PRAYTEAM_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %v", err)
			return nil, err
		}
	}

	return &fileConfig{
		Path:   viper.GetString("path"),
		Remote: viper.GetString("endpoint"),
		Actor:  viper.GetString("actor"),
	}, nil
}

type fileConfig struct {
	Path   string `json:"path"`
	Remote string `json:"endpoint"`
	Actor  string `json:"actor"`
}

func (f *fileConfig) BasePath() string {
	expanded, err := homedir.Expand(f.Path)
	if err != nil {
		return f.Path
	}
	return expanded
}

func (f *fileConfig) Endpoint() string {
	return f.Remote
}

func (f *fileConfig) ActorID() string {
	return f.Actor
}
