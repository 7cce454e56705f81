package share

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(database.NewRepository(db))
}

func TestGenerateAndResolve(t *testing.T) {
	s := testService(t)

	token, err := s.Generate(7, 14)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if token.Token == "" {
		t.Fatal("empty token")
	}

	wantExpiry := time.Now().AddDate(0, 0, 14)
	if diff := token.ExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpiresAt = %v, want about %v", token.ExpiresAt, wantExpiry)
	}

	userID, err := s.Resolve(token.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if userID != 7 {
		t.Errorf("Resolve = user %d, want 7", userID)
	}
}

func TestGenerateDefaultExpiry(t *testing.T) {
	s := testService(t)

	token, err := s.Generate(7, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := time.Now().AddDate(0, 0, DefaultExpiryDays)
	if diff := token.ExpiresAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpiresAt = %v, want about %v", token.ExpiresAt, want)
	}
}

func TestGenerateReplacesPreviousToken(t *testing.T) {
	s := testService(t)

	first, _ := s.Generate(7, 7)
	second, _ := s.Generate(7, 7)

	if first.Token == second.Token {
		t.Fatal("regeneration kept the same token")
	}
	if _, err := s.Resolve(first.Token); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("old token still resolves: %v", err)
	}
}

func TestResolveMalformedToken(t *testing.T) {
	s := testService(t)

	for _, bad := range []string{"", "not-a-uuid", "1234", "../../etc/passwd"} {
		if _, err := s.Resolve(bad); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Resolve(%q) = %v, want ErrInvalidToken", bad, err)
		}
	}
}

func TestResolveExpiredToken(t *testing.T) {
	s := testService(t)

	token, err := s.Generate(7, 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	s.now = func() time.Time { return time.Now().AddDate(0, 0, 3) }
	if _, err := s.Resolve(token.Token); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expired Resolve = %v, want ErrNotFound", err)
	}
}

func TestCurrentAndDisable(t *testing.T) {
	s := testService(t)

	current, err := s.Current(7)
	if err != nil || current != nil {
		t.Fatalf("Current with no token = %+v, %v; want nil, nil", current, err)
	}

	generated, _ := s.Generate(7, 7)
	current, err = s.Current(7)
	if err != nil || current == nil || current.Token != generated.Token {
		t.Fatalf("Current = %+v, %v", current, err)
	}

	existed, err := s.Disable(7)
	if err != nil || !existed {
		t.Fatalf("Disable = %v, %v", existed, err)
	}
	existed, _ = s.Disable(7)
	if existed {
		t.Error("second Disable reported a token")
	}
}
