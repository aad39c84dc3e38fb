package postgres

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

type Config struct {
	DSN             string `split_words:"true"`
	MaxOpenConns    int    `split_words:"true" default:"5"`
	MaxIdleConns    int    `split_words:"true" default:"2"`
	ConnMaxLifetime int    `split_words:"true" default:"300"`
}

func (c *Config) New() (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
