package services

import (
	"context"
	"testing"
	"time"

	"verse-scene-api/application/ports/inbound"
	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/domain"
)

func TestRegistryCreatesAndReusesSessions(t *testing.T) {
	var created int
	factory := func() inbound.SceneOrchestratorPort {
		created++
		return newHarness().orchestrator
	}
	registry := NewSceneRegistry(nopLogger{}, factory, time.Hour)

	sessionID, first := registry.Get("")
	if sessionID == "" {
		t.Fatal("a session id must be issued")
	}
	again, second := registry.Get(sessionID)
	if again != sessionID {
		t.Errorf("session id must be stable, got %q then %q", sessionID, again)
	}
	if first != second {
		t.Error("the same session must map to the same orchestrator")
	}
	if created != 1 {
		t.Errorf("factory calls: got %d, want 1", created)
	}

	_, other := registry.Get("unknown-session")
	if other == first {
		t.Error("an unknown id must create a fresh session")
	}
	if created != 2 {
		t.Errorf("factory calls: got %d, want 2", created)
	}
}

func TestRegistryDropReleasesResources(t *testing.T) {
	var resources outbound.AudioResourcePort
	factory := func() inbound.SceneOrchestratorPort {
		h := newHarness()
		resources = h.resources
		return h.orchestrator
	}
	registry := NewSceneRegistry(nopLogger{}, factory, time.Hour)

	sessionID, orchestrator := registry.Get("")
	if err := orchestrator.GenerateScene(context.Background(), "John 3:16"); err != nil {
		t.Fatalf("GenerateScene: %v", err)
	}
	if err := orchestrator.GenerateNarration(context.Background()); err != nil {
		t.Fatalf("GenerateNarration: %v", err)
	}
	if resources.Count() != 1 {
		t.Fatalf("precondition: one live resource, got %d", resources.Count())
	}

	registry.Drop(sessionID)

	if resources.Count() != 0 {
		t.Errorf("dropping the session must release its audio resource, got %d", resources.Count())
	}
}

func TestRegistryShutdownTearsDownAllSessions(t *testing.T) {
	registry := NewSceneRegistry(nopLogger{}, func() inbound.SceneOrchestratorPort {
		return newHarness().orchestrator
	}, time.Hour)

	var orchestrators []inbound.SceneOrchestratorPort
	for i := 0; i < 3; i++ {
		_, orchestrator := registry.Get("")
		orchestrators = append(orchestrators, orchestrator)
	}

	registry.Shutdown()

	for i, orchestrator := range orchestrators {
		snapshot := orchestrator.Snapshot()
		if snapshot.Phase != domain.PhaseIdle {
			t.Errorf("orchestrator %d not reset after shutdown: %q", i, snapshot.Phase)
		}
	}
}
