// Package pick provides interactive selection of groups and members for
// commands invoked without -g or -m.
package pick

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"prayteam/pkg/prayer"
)

// ErrNoGroups is returned when the actor has no groups to choose from.
var ErrNoGroups = errors.New("no groups to choose from")

// Group prompts for one of the given groups.
func Group(groups []prayer.Group) (prayer.Group, error) {
	if len(groups) == 0 {
		return prayer.Group{}, ErrNoGroups
	}
	if len(groups) == 1 {
		return groups[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .ID | faint }}",
		Inactive: "   {{ .Name }} {{ .ID | faint }}",
		Selected: "{{ .Name | bold }}",
	}

	searcher := func(input string, index int) bool {
		name := normalize(groups[index].Name)
		return strings.Contains(name, normalize(input))
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Group",
		Items:     groups,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return prayer.Group{}, err
	}
	return groups[i], nil
}

// Member prompts for one member of a group.
func Member(group prayer.Group) (string, error) {
	if len(group.Members) == 0 {
		return "", errors.New("group " + group.Name + " has no members")
	}
	if len(group.Members) == 1 {
		return group.Members[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ . | bold }}",
		Inactive: "   {{ . }}",
		Selected: "{{ . | bold }}",
	}

	searcher := func(input string, index int) bool {
		return strings.Contains(normalize(group.Members[index]), normalize(input))
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Member of " + group.Name,
		Items:     group.Members,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return group.Members[i], nil
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}
