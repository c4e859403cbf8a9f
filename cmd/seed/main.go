package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shenikar/incident_gateway/internal/config"
	"github.com/shenikar/incident_gateway/internal/repository"
	"github.com/shenikar/incident_gateway/internal/service"
	"github.com/shenikar/incident_gateway/internal/webhook"
	"github.com/shenikar/incident_gateway/pkg/logger"
	"github.com/shenikar/incident_gateway/pkg/postgres"
	redisclient "github.com/shenikar/incident_gateway/pkg/redis"
	"github.com/sirupsen/logrus"
)

// traversalSeed связывает путь прохождения с инцидентом из сид-данных
type traversalSeed struct {
	IncidentID    string                  `json:"incidentId"`
	TraversalPath []service.HopSubmission `json:"traversalPath"`
}

// noopPublisher отключает вебхуки при загрузке сидов: события о сид-данных
// не должны копиться в очереди доставки
type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ webhook.IncidentEvent) error { return nil }

func main() {
	incidentsPath := flag.String("incidents", "seed-data/incidents.json", "путь к файлу с инцидентами")
	hopsPath := flag.String("hops", "seed-data/traversalHops.json", "путь к файлу с путями прохождения")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	subs, err := loadSubmissions(*incidentsPath, *hopsPath)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	repo := repository.NewIncidentRepository(dbpool, redisClient)
	incidentService := service.NewIncidentService(repo, log, noopPublisher{})

	inserted, err := incidentService.SeedIncidents(ctx, subs)
	if err != nil {
		log.Fatalf("Failed to seed incidents after %d inserts: %v", inserted, err)
	}
	log.Infof("Wrote %d incident(s) from JSON seed data", inserted)
}

// loadSubmissions читает сид-файлы и подставляет каждому инциденту его путь
// прохождения по совпадению incidentId
func loadSubmissions(incidentsPath, hopsPath string) ([]service.IncidentSubmission, error) {
	incidentsRaw, err := os.ReadFile(incidentsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read incidents seed file: %w", err)
	}
	hopsRaw, err := os.ReadFile(hopsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read traversal hops seed file: %w", err)
	}

	var subs []service.IncidentSubmission
	if err := json.Unmarshal(incidentsRaw, &subs); err != nil {
		return nil, fmt.Errorf("could not parse incidents seed file: %w", err)
	}

	var seeds []traversalSeed
	if err := json.Unmarshal(hopsRaw, &seeds); err != nil {
		return nil, fmt.Errorf("could not parse traversal hops seed file: %w", err)
	}

	hopsByIncident := make(map[string][]service.HopSubmission, len(seeds))
	for _, seed := range seeds {
		hopsByIncident[seed.IncidentID] = seed.TraversalPath
	}

	for i := range subs {
		if hops, ok := hopsByIncident[subs[i].IncidentID]; ok {
			subs[i].TraversalPath = hops
		}
	}
	return subs, nil
}
