package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studypilot/studypilot/internal/store"
)

// messagesPerPage is the page size for conversation history.
const messagesPerPage = 60

// ChatService manages standalone conversations: chats that live outside any
// workspace and carry their own attachments.
type ChatService struct {
	store        *store.SQLiteStore
	gen          Generator
	cache        *FileCache
	files        *FileService
	regularModel string
	log          *zap.Logger
}

func NewChatService(st *store.SQLiteStore, gen Generator, cache *FileCache, files *FileService, regularModel string, log *zap.Logger) *ChatService {
	return &ChatService{
		store:        st,
		gen:          gen,
		cache:        cache,
		files:        files,
		regularModel: regularModel,
		log:          log,
	}
}

// Create starts a new standalone chat.
func (s *ChatService) Create(p Principal) (*store.Chat, error) {
	chat, err := s.store.CreateChat(p.ID, nil)
	if err != nil {
		return nil, err
	}
	s.log.Info("chat created", zap.Int64("user_id", p.ID), zap.String("chat_id", chat.ID))
	return chat, nil
}

func (s *ChatService) ListStandalone(p Principal) ([]store.Chat, error) {
	return s.store.ListStandaloneChats(p.ID)
}

// MessagesPage is one page of a conversation in chronological order.
type MessagesPage struct {
	Messages   []store.Message `json:"messages"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total_messages"`
}

// Messages returns one page of history. Page 1 holds the newest messages;
// within a page order is chronological.
func (s *ChatService) Messages(p Principal, chatID string, page int) (*MessagesPage, error) {
	chat, err := s.store.GetChatByID(chatID, p.ID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}
	if page < 1 {
		page = 1
	}

	total, err := s.store.CountMessages(chatID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessagesPage(chatID, messagesPerPage, (page-1)*messagesPerPage)
	if err != nil {
		return nil, err
	}
	reverseMessages(messages)

	totalPages := (total + messagesPerPage - 1) / messagesPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	return &MessagesPage{Messages: messages, Page: page, TotalPages: totalPages, Total: total}, nil
}

// Delete removes a standalone chat with its messages and attachments. Chats
// bound to a workspace can only go away with the workspace itself.
func (s *ChatService) Delete(p Principal, chatID string) error {
	chat, err := s.store.GetChatByID(chatID, p.ID)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}
	if chat.WorkspaceID != nil {
		return fmt.Errorf("%w: chat %s belongs to a workspace and cannot be deleted directly", ErrUnauthorized, chatID)
	}
	if err := s.store.DeleteChatCascade(chatID, p.ID); err != nil {
		return err
	}
	s.log.Info("chat deleted", zap.Int64("user_id", p.ID), zap.String("chat_id", chatID))
	return nil
}

// Send records the user's message (and any attachments), generates a reply
// grounded in the chat's files and recent history, records the reply, and
// returns it.
func (s *ChatService) Send(ctx context.Context, p Principal, chatID, text string, strict bool, uploads []Upload) (*store.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(uploads) == 0 {
		return nil, fmt.Errorf("%w: message text or files are required", ErrValidation)
	}

	chat, err := s.store.GetChatByID(chatID, p.ID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}

	history, err := s.store.ListMessagesPage(chatID, messagesPerPage, 0)
	if err != nil {
		return nil, err
	}
	reverseMessages(history)
	transcript := conversationTranscript(history)

	if len(uploads) > 0 {
		kind := store.FileKindImage
		for _, u := range uploads {
			if strings.EqualFold(u.ContentType, "application/pdf") {
				kind = store.FileKindPDF
				break
			}
		}
		added, err := s.files.AddChatFiles(ctx, p, chatID, kind, uploads)
		if err != nil {
			return nil, err
		}
		for i := range added {
			fileMsg := store.Message{
				ChatID:   chatID,
				Text:     added[i].Name,
				FromUser: true,
				IsFile:   true,
				FilePath: &added[i].Path,
				FileSize: &added[i].Size,
			}
			if err := s.store.CreateMessage(&fileMsg); err != nil {
				return nil, err
			}
		}
	}

	if text != "" {
		userMsg := store.Message{ChatID: chatID, Text: text, FromUser: true}
		if err := s.store.CreateMessage(&userMsg); err != nil {
			return nil, err
		}
	}

	encoded, err := s.encodeChatFiles(ctx, chatID)
	if err != nil {
		return nil, err
	}

	instruction := ChatReplyInstruction(text, len(encoded) > 0, transcript, strict)
	parts := BuildParts(instruction, PromptSources{
		PreviousMessages: transcript,
		Files:            encoded,
	})

	reply, err := s.gen.GenerateText(ctx, s.regularModel, parts)
	if err != nil {
		return nil, err
	}

	replyMsg := store.Message{ChatID: chatID, Text: reply, FromUser: false}
	if err := s.store.CreateMessage(&replyMsg); err != nil {
		return nil, err
	}
	return &replyMsg, nil
}

func (s *ChatService) encodeChatFiles(ctx context.Context, chatID string) ([]EncodedFile, error) {
	pdfs, err := s.store.ListChatFiles(chatID, store.FileKindPDF)
	if err != nil {
		return nil, err
	}
	images, err := s.store.ListChatFiles(chatID, store.FileKindImage)
	if err != nil {
		return nil, err
	}
	return encodeFiles(ctx, s.cache, append(pdfs, images...))
}

// encodeFiles resolves file records to inline payloads through the fetch
// cache, fetching misses concurrently.
func encodeFiles(ctx context.Context, cache *FileCache, files []store.File) ([]EncodedFile, error) {
	if len(files) == 0 {
		return nil, nil
	}
	encoded := make([]EncodedFile, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			data, err := cache.FetchEncoded(gctx, f.Path)
			if err != nil {
				return err
			}
			encoded[i] = EncodedFile{MIMEType: fileMIMEType(f), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return encoded, nil
}

func fileMIMEType(f store.File) string {
	if f.Kind == store.FileKindPDF {
		return "application/pdf"
	}
	name := strings.ToLower(f.Name)
	switch {
	case strings.HasSuffix(name, ".png"):
		return "image/png"
	case strings.HasSuffix(name, ".gif"):
		return "image/gif"
	case strings.HasSuffix(name, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// conversationTranscript flattens messages into the "User:"/"Assistant:"
// form the prompts expect. File placeholder messages are skipped.
func conversationTranscript(messages []store.Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.IsFile {
			continue
		}
		role := "Assistant"
		if m.FromUser {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Text)
	}
	return strings.TrimSpace(b.String())
}

func reverseMessages(messages []store.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
