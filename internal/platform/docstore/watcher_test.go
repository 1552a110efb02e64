package docstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcher_DetectsChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs := testDocs()
	if err := docs.Save(ctx, "doctor_patients", []string{"a"}); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher(docs, nil, 5*time.Millisecond, zerolog.Nop())

	var mu sync.Mutex
	changed := make(map[string]int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(ctx, []string{"doctor_patients"}, func(key string, _ []byte) {
			mu.Lock()
			changed[key]++
			mu.Unlock()
		})
	}()

	// Give the watcher time to snapshot the initial state, then write.
	time.Sleep(20 * time.Millisecond)
	if err := docs.Save(ctx, "doctor_patients", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := changed["doctor_patients"]
		mu.Unlock()
		if n >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("watcher never observed the change")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatcher_IgnoresUnwatchedKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs := testDocs()
	w := NewWatcher(docs, nil, 5*time.Millisecond, zerolog.Nop())

	var mu sync.Mutex
	fired := 0
	go w.Watch(ctx, []string{"patient_consents"}, func(string, []byte) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	time.Sleep(20 * time.Millisecond)
	if err := docs.Save(ctx, "consent_signatures", []string{"sig"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Errorf("watcher fired %d times for an unwatched key", fired)
	}
}
