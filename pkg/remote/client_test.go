package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetGroupsNormalizesLegacyKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("mode"); got != "getGroups" {
			t.Fatalf("unexpected mode %q", got)
		}
		if got := r.URL.Query().Get("adminId"); got != "actor-1" {
			t.Fatalf("unexpected adminId %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"groups":[
			{"그룹ID":"g1","그룹명":"수요모임","구성원목록":["민수","수지"]},
			{"groupId":"g2","name":"Friday","members":["Dana"]}
		]}`))
	}))
	defer srv.Close()

	groups, err := New(srv.URL).GetGroups(context.Background(), "actor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].ID != "g1" || groups[0].Name != "수요모임" || len(groups[0].Members) != 2 {
		t.Fatalf("legacy keys not normalized: %+v", groups[0])
	}
	if groups[1].ID != "g2" || groups[1].Name != "Friday" {
		t.Fatalf("current keys mangled: %+v", groups[1])
	}
}

func TestGetGroupsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"groupId":"g1","name":"A","members":[]}]`))
	}))
	defer srv.Close()

	groups, err := New(srv.URL).GetGroups(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != "g1" {
		t.Fatalf("bare array not handled: %+v", groups)
	}
}

func TestCallErrorOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL).GetPrayers(context.Background(), "g1", "m")
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CallError, got %T: %v", err, err)
	}
	if ce.Op != "getPrayers" {
		t.Fatalf("unexpected op %q", ce.Op)
	}
}

func TestCallErrorOnHTTPErrorWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"sheet unavailable"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetPrayers(context.Background(), "g1", "m")
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if want := "HTTP 502: sheet unavailable"; ce.Message != want {
		t.Fatalf("expected %q, got %q", want, ce.Message)
	}
}

func TestCallErrorOnBusinessRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"이미 존재하는 그룹입니다"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).AddGroup(context.Background(), "actor", "수요모임")
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if ce.Message != "이미 존재하는 그룹입니다" {
		t.Fatalf("unexpected message %q", ce.Message)
	}
}

func TestSaveNotePostsIndexAndOptionalVisibility(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.SaveNote(context.Background(), SaveNoteRequest{
		GroupID: "g1", Member: "민수", Index: 3, Answer: "응답됨", Comment: "note",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["mode"] != "saveNote" {
		t.Fatalf("unexpected mode %v", body["mode"])
	}
	if body["index"] != float64(3) {
		t.Fatalf("expected index 3, got %v", body["index"])
	}
	if _, present := body["visibility"]; present {
		t.Fatalf("visibility should be omitted when empty")
	}

	err = c.SaveNote(context.Background(), SaveNoteRequest{
		GroupID: "g1", Member: "민수", Index: 3, Answer: "보관됨", Visibility: "Hidden",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["visibility"] != "Hidden" {
		t.Fatalf("expected visibility Hidden, got %v", body["visibility"])
	}
}

func TestGetPrayersAllGroupsRejectsNonSequence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"range not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetPrayersAllGroups(context.Background(), []string{"g1", "g2"})
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if ce.Message != "range not found" {
		t.Fatalf("unexpected message %q", ce.Message)
	}
}

func TestGetPrayersAllGroupsDecodesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("groupIds"); got != "g1,g2" {
			t.Fatalf("unexpected groupIds %q", got)
		}
		_, _ = w.Write([]byte(`[
			{"groupId":"g1","memberName":"민수","prayers":["p"],"responses":["기대중"],"lastUpdated":"2024.05.01"}
		]`))
	}))
	defer srv.Close()

	rows, err := New(srv.URL).GetPrayersAllGroups(context.Background(), []string{"g1", "g2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].MemberName != "민수" || rows[0].LastUpdated != "2024.05.01" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}
