package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/Spok95/smartschool/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewJWTService("secret", "smartschool")
	tok, err := s.GenerateToken("T1", "34002", models.Teacher, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.TeacherID != "T1" || c.SchoolCode != "34002" || c.Role != models.Teacher {
		t.Fatalf("claims = %+v", c)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	s := NewJWTService("secret", "smartschool")
	other := NewJWTService("other", "smartschool")
	tok, _ := other.GenerateToken("T1", "34002", models.Teacher, time.Hour)
	if _, err := s.ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature: %v", err)
	}
	if _, err := s.ValidateToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: %v", err)
	}

	past := NewJWTService("secret", "smartschool")
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := past.GenerateToken("T1", "34002", models.Teacher, time.Hour)
	if _, err := s.ValidateToken(old); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expired: %v", err)
	}
}
