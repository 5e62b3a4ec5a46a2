package helpers

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/digitalpro/contact-gateway/internal/repository"
	"github.com/digitalpro/contact-gateway/pkg/pg"
	"github.com/digitalpro/contact-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.SubmissionEntity{},
		&repository.NewsletterEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	adapter, err := redis.NewRedisAdapter("test", "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestSubmission(t *testing.T, db *pg.DB, ip string, createdAt time.Time) *repository.SubmissionEntity {
	ctx := context.Background()
	sub := &repository.SubmissionEntity{
		Name:      "Test Sender",
		Email:     "sender@example.com",
		Message:   "A perfectly ordinary enquiry about your services.",
		IPAddress: ip,
		Status:    "new",
		CreatedAt: createdAt,
	}
	err := db.Write(ctx).Create(sub).Error
	require.NoError(t, err)
	return sub
}

func CreateTestSubscription(t *testing.T, db *pg.DB, email string, active bool) *repository.NewsletterEntity {
	ctx := context.Background()
	sub := &repository.NewsletterEntity{
		Email:    email,
		IsActive: active,
	}
	err := db.Write(ctx).Create(sub).Error
	require.NoError(t, err)
	return sub
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
