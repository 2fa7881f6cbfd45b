package auth

import (
	"testing"
	"time"
)

const testSecret = "un-secreto-de-al-menos-32-caracteres!!"

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Generate("sesion-123")
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.SessionID(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != "sesion-123" {
		t.Fatalf("SessionID = %q", got)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret, time.Hour).Generate("sesion-123")
	if err != nil {
		t.Fatal(err)
	}

	other := NewTokenManager("otro-secreto-tambien-de-32-caracteres", time.Hour)
	if _, err := other.SessionID(token); err == nil {
		t.Fatal("token firmado con otro secreto fue aceptado")
	}
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	token, err := m.Generate("sesion-123")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.SessionID(token); err == nil {
		t.Fatal("token expirado fue aceptado")
	}
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	if _, err := m.SessionID("no.es.jwt"); err == nil {
		t.Fatal("token ilegible fue aceptado")
	}
}
