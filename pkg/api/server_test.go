package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bowjob/jobagent/pkg/config"
	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/emailcomposer"
	"github.com/bowjob/jobagent/pkg/eventbus"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/jobsearch"
	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/pipeline"
	"github.com/bowjob/jobagent/pkg/quota"
	"github.com/bowjob/jobagent/pkg/sessionstore"
	"github.com/bowjob/jobagent/pkg/supervisor"
)

func fullyWiredServer() *Server {
	bus := eventbus.NewBus()
	ledger := quota.NewLedger(quota.NewMemoryStore())
	router := llmrouter.NewRouter(nil, nil, ledger)
	resolver := hrresolver.NewResolver()
	tailor := cvtailor.NewTailor(router)
	composer := emailcomposer.NewComposer(router)
	ctrl := pipeline.NewController(tailor, resolver, composer, nil, nil, bus)
	aggregator := jobsearch.NewAggregator(resolver, bus)
	apps, jobs, cvs := NewAppStore(), NewJobStore(), NewCVStore()
	sessions := sessionstore.NewStore()
	sup := supervisor.New(sessions, router, aggregator, resolver, tailor, composer, ctrl, apps, jobs, cvs)

	return &Server{
		Cfg:        &config.Config{},
		Bus:        bus,
		Sessions:   sessions,
		Router:     router,
		Ledger:     ledger,
		Aggregator: aggregator,
		Resolver:   resolver,
		Tailor:     tailor,
		Composer:   composer,
		Pipeline:   ctrl,
		Supervisor: sup,
		Apps:       apps,
		Jobs:       jobs,
		CVs:        cvs,
	}
}

func TestServer_ValidateWiring(t *testing.T) {
	t.Run("fully wired", func(t *testing.T) {
		assert.NoError(t, fullyWiredServer().ValidateWiring())
	})

	t.Run("nothing wired", func(t *testing.T) {
		err := (&Server{}).ValidateWiring()
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "server wiring incomplete")
		assert.Contains(t, msg, "config not set")
		assert.Contains(t, msg, "event bus not set")
		assert.Contains(t, msg, "supervisor not set")
	})

	t.Run("watcher is optional", func(t *testing.T) {
		s := fullyWiredServer()
		s.Watcher = nil
		assert.NoError(t, s.ValidateWiring())
	})

	t.Run("partial wiring reports only missing", func(t *testing.T) {
		s := fullyWiredServer()
		s.Ledger = nil
		s.Tailor = nil
		err := s.ValidateWiring()
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "quota ledger not set")
		assert.Contains(t, msg, "cv tailor not set")
		assert.NotContains(t, msg, "config not set")
		assert.NotContains(t, msg, "supervisor not set")
	})
}

func TestNewServer_RegistersRoutes(t *testing.T) {
	s := fullyWiredServer()
	full := NewServer(s.Cfg, s.Bus, s.Sessions, s.Router, s.Ledger, s.Aggregator, s.Resolver, s.Tailor, s.Composer, s.Pipeline, s.Supervisor, s.Apps, s.Jobs, s.CVs)
	require.NoError(t, full.ValidateWiring())

	routes := full.echo.Routes()
	found := make(map[string]bool, len(routes))
	for _, r := range routes {
		found[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{"GET /health", "POST /chat", "POST /cv/upload", "POST /jobs/search", "GET /ws"} {
		assert.True(t, found[want], "expected route %q to be registered", want)
	}
}
