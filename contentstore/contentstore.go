package contentstore

import (
	"docport/config"
	"docport/models"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	surrealdb "github.com/surrealdb/surrealdb.go"
)

// Store wraps the SurrealDB connection holding document content. The
// authorization core never touches this store; it only consumes the session
// assertion the identity side produced.
type Store struct {
	db *surrealdb.DB
}

var (
	store   *Store
	once    sync.Once
	connErr error
)

// Get returns the process-wide content store, connecting on first use.
func Get() (*Store, error) {
	once.Do(func() {
		store, connErr = connect()
	})
	return store, connErr
}

func connect() (*Store, error) {
	cfg := config.AppConfig

	db, err := surrealdb.New(cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("content store connect: %w", err)
	}

	if _, err := db.Signin(map[string]any{
		"user": cfg.SurrealUser,
		"pass": cfg.SurrealPass,
	}); err != nil {
		return nil, fmt.Errorf("content store signin: %w", err)
	}

	if _, err := db.Use(cfg.SurrealNS, cfg.SurrealDB); err != nil {
		return nil, fmt.Errorf("content store use: %w", err)
	}

	log.Println("Connected to content store.")
	return &Store{db: db}, nil
}

// decodeInto re-marshals the driver's dynamic response into a typed value.
func decodeInto(src any, dest any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

type queryResult struct {
	Status string            `json:"status"`
	Result []models.Document `json:"result"`
}

func (s *Store) queryDocuments(sql string, vars map[string]any) ([]models.Document, error) {
	res, err := s.db.Query(sql, vars)
	if err != nil {
		return nil, err
	}

	var results []queryResult
	if err := decodeInto(res, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []models.Document{}, nil
	}
	return results[0].Result, nil
}

// List returns live documents visible in the given domain to the given role.
// When allDomains is set the caller holds a doc_read grant scoped across every
// tenant and the visibility filters are skipped.
func (s *Store) List(domainID uint, roleName string, allDomains bool) ([]models.Document, error) {
	if allDomains {
		return s.queryDocuments("SELECT * FROM document WHERE deleted = false", nil)
	}
	return s.queryDocuments(
		"SELECT * FROM document WHERE deleted = false AND domains CONTAINS $domain AND roles CONTAINS $role",
		map[string]any{"domain": domainID, "role": roleName},
	)
}

// Get fetches a single document by record id, deleted or not.
func (s *Store) Get(id string) (*models.Document, error) {
	id = strings.TrimPrefix(id, "document:")
	docs, err := s.queryDocuments(
		"SELECT * FROM type::thing('document', $id)",
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

// Create stores a new document and returns it with its generated id.
func (s *Store) Create(doc models.Document) (*models.Document, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	now := time.Now().UTC()
	doc.ID = "document:" + id
	doc.Deleted = false
	doc.DeletedAt = nil
	doc.CreatedAt = now
	doc.UpdatedAt = now

	data := map[string]any{}
	if err := decodeInto(doc, &data); err != nil {
		return nil, err
	}
	delete(data, "id")

	if _, err := s.db.Create(doc.ID, data); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update merges the given fields into a document and returns the new state.
func (s *Store) Update(id string, fields map[string]any) (*models.Document, error) {
	id = strings.TrimPrefix(id, "document:")
	fields["updatedAt"] = time.Now().UTC()
	if _, err := s.db.Change("document:"+id, fields); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// SoftDelete marks a document deleted without removing it.
func (s *Store) SoftDelete(id string) (*models.Document, error) {
	now := time.Now().UTC()
	return s.Update(id, map[string]any{"deleted": true, "deletedAt": now})
}

// Restore clears the soft-delete markers.
func (s *Store) Restore(id string) (*models.Document, error) {
	return s.Update(id, map[string]any{"deleted": false, "deletedAt": nil})
}

// HardDelete removes a document permanently.
func (s *Store) HardDelete(id string) error {
	_, err := s.db.Delete("document:" + strings.TrimPrefix(id, "document:"))
	return err
}

// PurgeDeletedBefore removes documents soft-deleted before the cutoff and
// returns how many were dropped.
func (s *Store) PurgeDeletedBefore(cutoff time.Time) (int, error) {
	stale, err := s.queryDocuments(
		"SELECT * FROM document WHERE deleted = true AND deletedAt < $cutoff",
		map[string]any{"cutoff": cutoff.UTC()},
	)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if _, err := s.db.Query(
		"DELETE document WHERE deleted = true AND deletedAt < $cutoff",
		map[string]any{"cutoff": cutoff.UTC()},
	); err != nil {
		return 0, err
	}
	return len(stale), nil
}
