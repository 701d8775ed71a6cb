package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS workspaces (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        public_id TEXT NOT NULL DEFAULT '',
        name TEXT NOT NULL,
        description TEXT,
        tag TEXT,
        user_id INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        workspace_id TEXT, -- Workspace public id; NULL for standalone chats
        title TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        chat_id TEXT NOT NULL,
        text TEXT NOT NULL,
        from_user BOOLEAN NOT NULL,
        is_file BOOLEAN NOT NULL DEFAULT FALSE,
        file_path TEXT,
        file_size TEXT,
        flashcard_set_id TEXT,
        quiz_id TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (chat_id) REFERENCES chats (id)
    );

    CREATE TABLE IF NOT EXISTS files (
        id TEXT PRIMARY KEY, -- UUID
        kind TEXT NOT NULL CHECK (kind IN ('pdf', 'image')),
        name TEXT NOT NULL,
        workspace_id TEXT,
        chat_id TEXT,
        user_id INTEGER NOT NULL,
        path TEXT NOT NULL,
        summary TEXT NOT NULL DEFAULT '',
        size TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        CHECK (workspace_id IS NULL OR chat_id IS NULL)
    );

    CREATE TABLE IF NOT EXISTS videos (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        video_id TEXT NOT NULL,
        title TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        channel_title TEXT NOT NULL DEFAULT '',
        thumbnail_url TEXT NOT NULL DEFAULT '',
        view_count INTEGER NOT NULL DEFAULT 0,
        like_count INTEGER NOT NULL DEFAULT 0,
        comment_count INTEGER NOT NULL DEFAULT 0,
        duration TEXT NOT NULL DEFAULT '',
        workspace_id TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (video_id, workspace_id)
    );

    CREATE TABLE IF NOT EXISTS quizzes (
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        creator TEXT NOT NULL,
        user_id INTEGER NOT NULL,
        workspace_id TEXT,
        file_id TEXT,
        source TEXT NOT NULL DEFAULT '',
        source_type TEXT NOT NULL CHECK (source_type IN ('workspace', 'file', 'topic')),
        duration INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS questions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        quiz_id TEXT NOT NULL,
        question TEXT NOT NULL,
        options TEXT NOT NULL, -- JSON array of strings
        correct_answer TEXT NOT NULL,
        explanation TEXT NOT NULL DEFAULT '',
        FOREIGN KEY (quiz_id) REFERENCES quizzes (id)
    );

    CREATE TABLE IF NOT EXISTS flashcard_sets (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        workspace_id TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS flashcards (
        id TEXT PRIMARY KEY, -- UUID
        set_id TEXT NOT NULL,
        question TEXT NOT NULL,
        answer TEXT NOT NULL,
        explanation TEXT NOT NULL DEFAULT '',
        FOREIGN KEY (set_id) REFERENCES flashcard_sets (id)
    );

    CREATE TABLE IF NOT EXISTS quiz_attempts (
        id TEXT PRIMARY KEY, -- UUID
        quiz_id TEXT NOT NULL,
        name TEXT NOT NULL,
        email TEXT NOT NULL DEFAULT '',
        score INTEGER NOT NULL,
        total INTEGER NOT NULL,
        percentage REAL NOT NULL,
        time_taken INTEGER NOT NULL DEFAULT 0,
        time_remaining TEXT NOT NULL DEFAULT '0:00',
        answers TEXT NOT NULL, -- JSON array of strings
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (quiz_id) REFERENCES quizzes (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}
