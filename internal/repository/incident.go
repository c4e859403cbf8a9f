package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_gateway/internal/models"
	"github.com/shenikar/incident_gateway/internal/service"
	"github.com/shenikar/incident_gateway/internal/stream"
)

const incidentCacheTTL = 5 * time.Minute

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// incidentColumns - общий список колонок для всех SELECT по инцидентам
const incidentColumns = `
	id,
	incident_id,
	type,
	severity,
	status,
	source,
	ST_X(location::geometry) as longitude,
	ST_Y(location::geometry) as latitude,
	region_code,
	location_description,
	traversal_path,
	base_receipt,
	payload,
	created_at,
	updated_at,
	immutable`

// Create вставляет инцидент одной атомарной операцией и после успешной вставки
// публикует полный документ в канал уведомлений о вставках
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	sourceJSON, err := json.Marshal(incident.Source)
	if err != nil {
		return fmt.Errorf("failed to marshal incident source: %w", err)
	}
	pathJSON, err := json.Marshal(incident.TraversalPath)
	if err != nil {
		return fmt.Errorf("failed to marshal traversal path: %w", err)
	}
	receiptJSON, err := json.Marshal(incident.BaseReceipt)
	if err != nil {
		return fmt.Errorf("failed to marshal base receipt: %w", err)
	}
	payloadJSON, err := json.Marshal(incident.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal incident payload: %w", err)
	}

	query := `
		INSERT INTO incidents (
			incident_id, type, severity, status, source,
			location, region_code, location_description,
			traversal_path, base_receipt, payload,
			created_at, updated_at, immutable
		)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id;
	`
	err = r.db.QueryRow(ctx, query,
		incident.IncidentID,
		incident.Type,
		incident.Severity,
		incident.Status,
		sourceJSON,
		incident.Location.Coordinates[0],
		incident.Location.Coordinates[1],
		incident.Location.RegionCode,
		incident.Location.Description,
		pathJSON,
		receiptJSON,
		payloadJSON,
		incident.Audit.CreatedAt,
		incident.Audit.UpdatedAt,
		incident.Audit.Immutable,
	).Scan(&incident.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("incident %s: %w", incident.IncidentID, service.ErrDuplicateIncidentID)
		}
		return fmt.Errorf("failed to create incident: %w", err)
	}

	r.publishInsert(ctx, incident)
	return nil
}

// publishInsert отправляет полный документ в Redis-канал, на который подписан хаб.
// Ошибка публикации не откатывает вставку: запись уже в хранилище
func (r *IncidentRepository) publishInsert(ctx context.Context, incident *models.Incident) {
	doc, err := json.Marshal(incident)
	if err != nil {
		return
	}
	_ = r.redisClient.Publish(ctx, stream.InsertChannel, doc).Err()
}

// GetByID возвращает инцидент по его UUID в хранилище
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	row := r.db.QueryRow(ctx, query, id)
	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List возвращает страницу инцидентов в порядке, обратном вставке,
// и общее количество записей
func (r *IncidentRepository) List(ctx context.Context, page, limit int) ([]*models.Incident, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM incidents;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	query := `SELECT ` + incidentColumns + `
		FROM incidents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2;`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, total, nil
}

// CountByStatus возвращает количество инцидентов в заданном статусе
func (r *IncidentRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM incidents WHERE status = $1;`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count incidents by status: %w", err)
	}
	return count, nil
}

// DeleteByIncidentIDs удаляет инциденты по бизнес-идентификаторам.
// Используется только массовой загрузкой сидов
func (r *IncidentRepository) DeleteByIncidentIDs(ctx context.Context, incidentIDs []string) error {
	if len(incidentIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE incident_id = ANY($1);`, incidentIDs)
	if err != nil {
		return fmt.Errorf("failed to delete incidents by incident ids: %w", err)
	}
	return nil
}

// scanIncident собирает модель из строки запроса с колонками incidentColumns
func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var (
		sourceJSON  []byte
		pathJSON    []byte
		receiptJSON []byte
		payloadJSON []byte
		longitude   float64
		latitude    float64
	)

	err := row.Scan(
		&incident.ID,
		&incident.IncidentID,
		&incident.Type,
		&incident.Severity,
		&incident.Status,
		&sourceJSON,
		&longitude,
		&latitude,
		&incident.Location.RegionCode,
		&incident.Location.Description,
		&pathJSON,
		&receiptJSON,
		&payloadJSON,
		&incident.Audit.CreatedAt,
		&incident.Audit.UpdatedAt,
		&incident.Audit.Immutable,
	)
	if err != nil {
		return nil, err
	}

	incident.Location.Type = "Point"
	incident.Location.Coordinates = []float64{longitude, latitude}

	if err := json.Unmarshal(sourceJSON, &incident.Source); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident source: %w", err)
	}
	if err := json.Unmarshal(pathJSON, &incident.TraversalPath); err != nil {
		return nil, fmt.Errorf("failed to unmarshal traversal path: %w", err)
	}
	if err := json.Unmarshal(receiptJSON, &incident.BaseReceipt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal base receipt: %w", err)
	}
	if err := json.Unmarshal(payloadJSON, &incident.Payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident payload: %w", err)
	}
	return incident, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis. Записи неизменяемы по соглашению,
// поэтому инвалидация не нужна, достаточно TTL
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}
