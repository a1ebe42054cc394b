package db

import (
	"os"
	"testing"
)

func TestConnectMongo_BadURI(t *testing.T) {
	old := os.Getenv("MONGO_URI")
	defer os.Setenv("MONGO_URI", old)

	os.Setenv("MONGO_URI", "mongodb://bad:uri")
	client, err := ConnectMongo()
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestDatabaseName(t *testing.T) {
	old := os.Getenv("MONGO_DB")
	defer os.Setenv("MONGO_DB", old)

	os.Setenv("MONGO_DB", "")
	if got := DatabaseName(); got != "coolcare" {
		t.Errorf("expected default database name, got %s", got)
	}

	os.Setenv("MONGO_DB", "coolcare_test")
	if got := DatabaseName(); got != "coolcare_test" {
		t.Errorf("expected coolcare_test, got %s", got)
	}
}
