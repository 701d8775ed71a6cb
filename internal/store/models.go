package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

type Workspace struct {
	ID          int64     `json:"-"` // Internal numeric id, never serialized
	PublicID    string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Tag         *string   `json:"tag"`
	UserID      int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileKind distinguishes the two stored binary source types.
type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindImage FileKind = "image"
)

// File is a document or image reference. Exactly one of WorkspaceID and
// ChatID is set: workspace files form the persistent corpus, chat files are
// per-conversation attachments.
type File struct {
	ID          string    `json:"id"` // UUID
	Kind        FileKind  `json:"kind"`
	Name        string    `json:"file_name"`
	WorkspaceID *string   `json:"workspace_id,omitempty"`
	ChatID      *string   `json:"chat_id,omitempty"`
	UserID      int64     `json:"-"`
	Path        string    `json:"file_path"`
	Summary     string    `json:"-"`
	Size        string    `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type Video struct {
	ID           int64     `json:"-"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ViewCount    uint64    `json:"view_count"`
	LikeCount    uint64    `json:"like_count"`
	CommentCount uint64    `json:"comment_count"`
	Duration     string    `json:"duration"`
	WorkspaceID  string    `json:"workspace_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Chat struct {
	ID          string    `json:"id"` // UUID
	UserID      int64     `json:"-"`
	WorkspaceID *string   `json:"workspace_id"` // Nil for standalone chats
	Title       *string   `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

type Message struct {
	ID             string    `json:"id"` // UUID
	ChatID         string    `json:"chat_id"`
	Text           string    `json:"text"`
	FromUser       bool      `json:"from_user"`
	IsFile         bool      `json:"is_file"`
	FilePath       *string   `json:"file_path,omitempty"`
	FileSize       *string   `json:"file_size,omitempty"`
	FlashcardSetID *string   `json:"flashcard_set_id,omitempty"`
	QuizID         *string   `json:"quiz_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Quiz source provenance values.
const (
	SourceWorkspace = "workspace"
	SourceFile      = "file"
	SourceTopic     = "topic"
)

type Quiz struct {
	ID          string    `json:"id"` // UUID
	Name        string    `json:"name"`
	Creator     string    `json:"creator"`
	UserID      int64     `json:"-"`
	WorkspaceID *string   `json:"workspace_id,omitempty"`
	FileID      *string   `json:"file_id,omitempty"`
	Source      string    `json:"quiz_source"`
	SourceType  string    `json:"quiz_source_type"`
	Duration    int       `json:"duration"` // Minutes
	CreatedAt   time.Time `json:"created_at"`
}

type Question struct {
	ID            int64    `json:"-"`
	QuizID        string   `json:"-"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type FlashcardSet struct {
	ID          string    `json:"id"` // UUID
	UserID      int64     `json:"-"`
	WorkspaceID *string   `json:"workspace_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Flashcard struct {
	ID          string `json:"id"` // UUID
	SetID       string `json:"-"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// QuizAttempt records one scoring run against a quiz. Immutable once created.
type QuizAttempt struct {
	ID            string    `json:"id"` // UUID
	QuizID        string    `json:"quiz_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Score         int       `json:"score"`
	Total         int       `json:"total_questions"`
	Percentage    float64   `json:"percentage"`
	TimeTaken     int       `json:"time_taken"`
	TimeRemaining string    `json:"time_remaining"`
	Answers       []string  `json:"answers"`
	CreatedAt     time.Time `json:"created_at"`
}
