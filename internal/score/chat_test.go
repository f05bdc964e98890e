// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/litwatch/pkg/types"
)

func TestChatBackendComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"SCORE: 7\nREASON: fine"}}]}`)
	}))
	defer ts.Close()

	b := &ChatBackend{
		Client: ts.Client(),
		Config: types.AIConfig{Model: "deepseek-chat", APIKey: "ak_test", BaseURL: ts.URL},
	}

	reply, err := b.Complete(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "SCORE: 7\nREASON: fine" {
		t.Errorf("reply = %q", reply)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer ak_test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Model != "deepseek-chat" || gotBody.Stream {
		t.Errorf("request body = %+v", gotBody)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" || gotBody.Messages[0].Content != "prompt text" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
}

func TestChatBackendErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer ts.Close()

	b := &ChatBackend{Client: ts.Client(), Config: types.AIConfig{BaseURL: ts.URL}}
	if _, err := b.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error for HTTP 402")
	}
}

func TestChatBackendNoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer ts.Close()

	b := &ChatBackend{Client: ts.Client(), Config: types.AIConfig{BaseURL: ts.URL}}
	if _, err := b.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
