package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	contactKeyPrefix = "contact:"
	contactIndexKey  = "contacts"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisDirectory is a Redis-backed contact document store. Each contact is a
// JSON document at contact:<user_id>; a set holds the id index.
type RedisDirectory struct {
	rdb    *redis.Client
	logger ectologger.Logger
}

// NewRedisDirectory connects to Redis and verifies the connection.
func NewRedisDirectory(cfg Config, logger ectologger.Logger) (*RedisDirectory, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Infof("Connected to Redis at %s", addr)

	return &RedisDirectory{
		rdb:    rdb,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (d *RedisDirectory) Close() error {
	return d.rdb.Close()
}

// Client exposes the underlying Redis client for health probes
func (d *RedisDirectory) Client() *redis.Client {
	return d.rdb
}

// Ping checks if Redis is reachable
func (d *RedisDirectory) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.rdb.Ping(ctx).Err()
}

// FindByID returns the contact document for userID, or (nil, nil) when no
// document exists.
func (d *RedisDirectory) FindByID(ctx context.Context, userID string) (*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.RedisDirectory.FindByID")
	defer span.End()

	data, err := d.rdb.Get(ctx, contactKeyPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		d.logger.WithContext(ctx).WithError(err).Error("Failed to get contact document")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact")
	}

	var contact models.Contact
	if err := json.Unmarshal([]byte(data), &contact); err != nil {
		d.logger.WithContext(ctx).WithError(err).WithField("user_id", userID).Error("Failed to decode contact document")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to decode contact")
	}

	return &contact, nil
}

// FindAll returns every contact document in the directory.
func (d *RedisDirectory) FindAll(ctx context.Context) ([]models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.RedisDirectory.FindAll")
	defer span.End()

	ids, err := d.rdb.SMembers(ctx, contactIndexKey).Result()
	if err != nil {
		d.logger.WithContext(ctx).WithError(err).Error("Failed to read contact index")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	if len(ids) == 0 {
		return []models.Contact{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = contactKeyPrefix + id
	}

	values, err := d.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		d.logger.WithContext(ctx).WithError(err).Error("Failed to fetch contact documents")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	contacts := make([]models.Contact, 0, len(values))
	for i, value := range values {
		data, ok := value.(string)
		if !ok {
			// index entry without a document, likely a partial delete
			d.logger.WithContext(ctx).WithField("user_id", ids[i]).Warn("Contact index entry has no document, skipping")
			continue
		}

		var contact models.Contact
		if err := json.Unmarshal([]byte(data), &contact); err != nil {
			d.logger.WithContext(ctx).WithError(err).WithField("user_id", ids[i]).Warn("Failed to decode contact document, skipping")
			continue
		}
		contacts = append(contacts, contact)
	}

	return contacts, nil
}

// Insert writes a new contact document and registers it in the index.
func (d *RedisDirectory) Insert(ctx context.Context, contact models.Contact) error {
	ctx, span := tracing.StartSpan(ctx, "directory.RedisDirectory.Insert")
	defer span.End()

	data, err := json.Marshal(contact)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to encode contact")
	}

	pipe := d.rdb.TxPipeline()
	pipe.Set(ctx, contactKeyPrefix+contact.UserID, data, 0)
	pipe.SAdd(ctx, contactIndexKey, contact.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		d.logger.WithContext(ctx).WithError(err).Error("Failed to insert contact document")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert contact")
	}

	return nil
}

// UpdateFields patches the supplied fields on an existing contact document.
func (d *RedisDirectory) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "directory.RedisDirectory.UpdateFields")
	defer span.End()

	contact, err := d.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if contact == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "contact not found")
	}

	ApplyFields(contact, fields)

	data, err := json.Marshal(contact)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to encode contact")
	}

	if err := d.rdb.Set(ctx, contactKeyPrefix+userID, data, 0).Err(); err != nil {
		d.logger.WithContext(ctx).WithError(err).Error("Failed to update contact document")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update contact")
	}

	return nil
}

// Delete removes the contact document and its index entry.
func (d *RedisDirectory) Delete(ctx context.Context, userID string) error {
	ctx, span := tracing.StartSpan(ctx, "directory.RedisDirectory.Delete")
	defer span.End()

	pipe := d.rdb.TxPipeline()
	pipe.Del(ctx, contactKeyPrefix+userID)
	pipe.SRem(ctx, contactIndexKey, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		d.logger.WithContext(ctx).WithError(err).Error("Failed to delete contact document")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete contact")
	}

	return nil
}

// ApplyFields patches the updatable contact fields. Unknown keys are ignored;
// user_id is immutable and never patched.
func ApplyFields(contact *models.Contact, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "name":
			if v, ok := value.(string); ok {
				contact.Name = v
			}
		case "email":
			if v, ok := value.(string); ok {
				contact.Email = v
			}
		case "phone":
			switch v := value.(type) {
			case int64:
				contact.Phone = v
			case int:
				contact.Phone = int64(v)
			case float64:
				contact.Phone = int64(v)
			}
		}
	}
}
