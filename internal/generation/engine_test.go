package generation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jurema-br/nino/config"
)

type stubEngine struct {
	mu       sync.Mutex
	inFlight int32
	maxSeen  int32
	delay    time.Duration
}

func (s *stubEngine) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	s.mu.Lock()
	if n > s.maxSeen {
		s.maxSeen = n
	}
	s.mu.Unlock()
	defer atomic.AddInt32(&s.inFlight, -1)
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "ok", nil
}

func TestNewEngineUnsupportedProvider(t *testing.T) {
	_, err := NewEngine(config.LLMConfig{Provider: "llama-over-carrier-pigeon"})
	if err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestNewEngineSelectsProvider(t *testing.T) {
	engine, err := NewEngine(config.LLMConfig{Provider: "openai", MaxConcurrent: 0})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, ok := engine.(*OpenAIEngine); !ok {
		t.Fatalf("expected *OpenAIEngine, got %T", engine)
	}
	engine, err = NewEngine(config.LLMConfig{Provider: "huggingface", MaxConcurrent: 1})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, ok := engine.(*SerializedEngine); !ok {
		t.Fatalf("expected *SerializedEngine wrapper, got %T", engine)
	}
}

func TestSerializedEngineBoundsConcurrency(t *testing.T) {
	stub := &stubEngine{delay: 20 * time.Millisecond}
	engine := NewSerializedEngine(stub, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Generate(context.Background(), "p", 16); err != nil {
				t.Errorf("Generate: %v", err)
			}
		}()
	}
	wg.Wait()

	if stub.maxSeen != 1 {
		t.Fatalf("expected at most 1 in-flight generation, saw %d", stub.maxSeen)
	}
}

func TestSerializedEngineHonorsContextWhileQueued(t *testing.T) {
	stub := &stubEngine{delay: 500 * time.Millisecond}
	engine := NewSerializedEngine(stub, 1)

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = engine.Generate(context.Background(), "long", 16)
	}()
	<-started
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := engine.Generate(ctx, "queued", 16)
	if err != context.DeadlineExceeded {
		t.Fatalf("expected DeadlineExceeded for queued call, got %v", err)
	}
}

func TestOpenAIEngineGenerate(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Olá! Sou o Nino."}}]}`)
	}))
	defer ts.Close()

	engine := NewOpenAIEngine(config.LLMConfig{
		Provider: "openai",
		APIKey:   "sk-test",
		BaseURL:  ts.URL,
		Model:    "gpt-4o-mini",
		Timeout:  5 * time.Second,
	})
	got, err := engine.Generate(context.Background(), "Oi", 64)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Olá! Sou o Nino." {
		t.Fatalf("unexpected completion: %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestHuggingFaceEngineGenerate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Jurema-br%2FJurema-7B" && r.URL.Path != "/Jurema-br/Jurema-7B" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"generated_text":"  A resposta é...  "}]`)
	}))
	defer ts.Close()

	engine := NewHuggingFaceEngine(config.LLMConfig{
		Provider: "huggingface",
		BaseURL:  ts.URL,
		Model:    "Jurema-br/Jurema-7B",
		Timeout:  5 * time.Second,
	})
	got, err := engine.Generate(context.Background(), "Oi", 64)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "A resposta é..." {
		t.Fatalf("expected trimmed completion, got %q", got)
	}
}

func TestHuggingFaceEngineEmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	engine := NewHuggingFaceEngine(config.LLMConfig{BaseURL: ts.URL, Model: "m", Timeout: time.Second})
	if _, err := engine.Generate(context.Background(), "Oi", 8); err == nil {
		t.Fatalf("expected error for empty generation result")
	}
}
