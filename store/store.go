package store

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Credential is the persisted form of an OAuth credential pair. The JSON
// layout matches the entries of a db.json file written by earlier releases.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	// ExpiryDate is in unix milliseconds, zero when unknown.
	ExpiryDate int64 `json:"expiry_date,omitempty"`
}

// FromToken converts an oauth2 token into its persisted form.
func FromToken(tok *oauth2.Token) Credential {
	cred := Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		cred.ExpiryDate = tok.Expiry.UnixMilli()
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		cred.IDToken = idToken
	}
	return cred
}

// Token converts the credential back into an oauth2 token.
func (c Credential) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
	}
	if c.ExpiryDate > 0 {
		tok.Expiry = time.UnixMilli(c.ExpiryDate)
	}
	return tok
}

// CredentialStore keeps one credential per caller identifier.
//
//go:generate mockgen -source=store.go -destination=../tests/mocks/store.go -package=mocks
type CredentialStore interface {
	Get(callerID string) (Credential, bool, error)
	Put(callerID string, cred Credential) error
	Delete(callerID string) error
	Close() error
}

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// New opens the store selected by driver.
func New(driver, path string) (CredentialStore, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(path)
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown credential store driver %q", driver)
	}
}
