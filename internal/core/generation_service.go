package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
	"github.com/studypilot/studypilot/internal/tasks"
)

// GenerationService runs the document-grounded pipeline: gather sources,
// assemble the prompt, invoke the model, persist the produced artifact.
// Question answering and complex artifacts use the thinking model; cheap
// list-style outputs use the regular model.
type GenerationService struct {
	store         *store.SQLiteStore
	gen           Generator
	cache         *FileCache
	runner        *tasks.Runner
	thinkingModel string
	regularModel  string
	log           *zap.Logger
}

func NewGenerationService(st *store.SQLiteStore, gen Generator, cache *FileCache, runner *tasks.Runner, thinkingModel, regularModel string, log *zap.Logger) *GenerationService {
	return &GenerationService{
		store:         st,
		gen:           gen,
		cache:         cache,
		runner:        runner,
		thinkingModel: thinkingModel,
		regularModel:  regularModel,
		log:           log,
	}
}

// AskQuestion answers a question grounded in a workspace. With fileURL set
// the answer is grounded strictly in that one file; otherwise every file and
// video in the workspace is in scope. The answer returns immediately; the
// question/answer pair is appended to the workspace chat in the background.
func (s *GenerationService) AskQuestion(ctx context.Context, p Principal, workspaceID, question, fileURL string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", ErrValidation)
	}

	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return "", err
	}
	if ws == nil {
		return "", fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}

	chat, err := s.store.GetWorkspaceChat(workspaceID)
	if err != nil {
		return "", err
	}

	var transcript string
	if chat != nil {
		history, err := s.store.ListMessagesPage(chat.ID, messagesPerPage, 0)
		if err != nil {
			return "", err
		}
		reverseMessages(history)
		transcript = conversationTranscript(history)
	}

	var sources PromptSources
	sources.PreviousMessages = transcript
	var instruction string

	if fileURL != "" {
		file, err := s.store.GetFileByPath(fileURL, workspaceID)
		if err != nil {
			return "", err
		}
		if file == nil {
			return "", fmt.Errorf("%w: file at %s", ErrNotFound, fileURL)
		}
		sources.Files, err = encodeFiles(ctx, s.cache, []store.File{*file})
		if err != nil {
			return "", err
		}
		instruction = FileQuestionInstruction(question)
	} else {
		sources.Files, sources.Videos, err = s.workspaceSources(ctx, workspaceID)
		if err != nil {
			return "", err
		}
		instruction = WorkspaceQuestionInstruction(question, len(sources.Videos) > 0)
	}

	answer, err := s.gen.GenerateText(ctx, s.thinkingModel, BuildParts(instruction, sources))
	if err != nil {
		return "", err
	}

	if chat != nil {
		chatID := chat.ID
		s.runner.Submit("persist-answer", func(context.Context) error {
			userMsg := store.Message{ChatID: chatID, Text: question, FromUser: true}
			if err := s.store.CreateMessage(&userMsg); err != nil {
				return err
			}
			modelMsg := store.Message{ChatID: chatID, Text: answer, FromUser: false}
			return s.store.CreateMessage(&modelMsg)
		})
	}
	return answer, nil
}

// QuizRequest describes one quiz generation. Exactly one source applies:
// Topic (open knowledge), FileURL (one file), or the whole workspace.
type QuizRequest struct {
	WorkspaceID string
	FileURL     string
	Topic       string
	Name        string
	Difficulty  string
	Size        int
	Duration    int
}

// GenerateQuiz produces a quiz and persists it with its questions in one
// transaction. A model response with more questions than requested is
// clamped; fewer is accepted. If the quiz row was written but its questions
// failed, the error is ErrPartialPersistence.
func (s *GenerationService) GenerateQuiz(ctx context.Context, p Principal, req QuizRequest) (*QuizDetail, error) {
	if req.Size <= 0 {
		return nil, fmt.Errorf("%w: quiz size must be positive", ErrValidation)
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	quiz := store.Quiz{
		Creator:  p.Name,
		UserID:   p.ID,
		Duration: req.Duration,
	}
	var sources PromptSources
	var instruction string

	switch {
	case req.Topic != "":
		quiz.Source = req.Topic
		quiz.SourceType = store.SourceTopic
		instruction = QuizTopicInstruction(req.Difficulty, req.Size, req.Topic)

	case req.WorkspaceID != "":
		ws, err := s.store.GetWorkspaceByPublicID(req.WorkspaceID, p.ID)
		if err != nil {
			return nil, err
		}
		if ws == nil {
			return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, req.WorkspaceID)
		}
		quiz.WorkspaceID = &ws.PublicID

		if req.FileURL != "" {
			file, err := s.store.GetFileByPath(req.FileURL, req.WorkspaceID)
			if err != nil {
				return nil, err
			}
			if file == nil {
				return nil, fmt.Errorf("%w: file at %s", ErrNotFound, req.FileURL)
			}
			quiz.FileID = &file.ID
			quiz.Source = file.Name
			quiz.SourceType = store.SourceFile
			sources.Files, err = encodeFiles(ctx, s.cache, []store.File{*file})
			if err != nil {
				return nil, err
			}
		} else {
			quiz.Source = ws.Name
			quiz.SourceType = store.SourceWorkspace
			sources.Files, _, err = s.workspaceSources(ctx, req.WorkspaceID)
			if err != nil {
				return nil, err
			}
			if len(sources.Files) == 0 {
				return nil, fmt.Errorf("%w: workspace has no files to build a quiz from", ErrValidation)
			}
		}
		instruction = QuizSourceInstruction(req.Difficulty, req.Size)

	default:
		return nil, fmt.Errorf("%w: either a topic or a workspace is required", ErrValidation)
	}

	quiz.Name = strings.TrimSpace(req.Name)
	if quiz.Name == "" {
		quiz.Name = fmt.Sprintf("%s Quiz", quiz.Source)
	}

	raw, err := s.gen.GenerateJSON(ctx, s.thinkingModel, BuildParts(instruction, sources), QuizSchema())
	if err != nil {
		return nil, err
	}
	items, err := DecodeQuizItems(raw, req.Size)
	if err != nil {
		return nil, err
	}

	questions := make([]store.Question, len(items))
	for i, item := range items {
		questions[i] = store.Question{
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
			Explanation:   item.Explanation,
		}
	}

	parentCreated, err := s.store.CreateQuizWithQuestions(&quiz, questions)
	if err != nil {
		if parentCreated {
			return nil, fmt.Errorf("%w: quiz %s: %v", ErrPartialPersistence, quiz.ID, err)
		}
		return nil, err
	}

	s.log.Info("quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.String("source_type", quiz.SourceType),
		zap.Int("questions", len(questions)))

	if quiz.WorkspaceID != nil {
		s.postArtifactMessage(*quiz.WorkspaceID, fmt.Sprintf("Generated quiz: %s", quiz.Name), nil, &quiz.ID)
	}
	return &QuizDetail{Quiz: quiz, Questions: questions}, nil
}

// FlashcardRequest describes one flashcard generation. Context is a
// user-supplied focus; when set the card count is fixed at six.
type FlashcardRequest struct {
	WorkspaceID string
	Topic       string
	Context     string
	Size        int
}

// FlashcardSetDetail is a set together with its cards.
type FlashcardSetDetail struct {
	store.FlashcardSet
	Cards []store.Flashcard `json:"flashcards"`
}

func (s *GenerationService) GenerateFlashcards(ctx context.Context, p Principal, req FlashcardRequest) (*FlashcardSetDetail, error) {
	set := store.FlashcardSet{UserID: p.ID}
	var sources PromptSources
	var instruction string
	cardCount := req.Size

	switch {
	case req.Topic != "":
		if req.Size <= 0 {
			return nil, fmt.Errorf("%w: flashcard count must be positive", ErrValidation)
		}
		instruction = FlashcardTopicInstruction(req.Size, req.Topic)

	case req.WorkspaceID != "":
		ws, err := s.store.GetWorkspaceByPublicID(req.WorkspaceID, p.ID)
		if err != nil {
			return nil, err
		}
		if ws == nil {
			return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, req.WorkspaceID)
		}
		set.WorkspaceID = &ws.PublicID

		sources.Files, _, err = s.workspaceSources(ctx, req.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if len(sources.Files) == 0 {
			return nil, fmt.Errorf("%w: workspace has no files to build flashcards from", ErrValidation)
		}
		if req.Context != "" {
			instruction = FlashcardContextInstruction(req.Context)
			cardCount = contextFlashcardCount
		} else {
			if req.Size <= 0 {
				return nil, fmt.Errorf("%w: flashcard count must be positive", ErrValidation)
			}
			instruction = FlashcardSourceInstruction(req.Size)
		}

	default:
		return nil, fmt.Errorf("%w: either a topic or a workspace is required", ErrValidation)
	}

	raw, err := s.gen.GenerateJSON(ctx, s.thinkingModel, BuildParts(instruction, sources), FlashcardSchema())
	if err != nil {
		return nil, err
	}
	items, err := DecodeFlashcards(raw, cardCount)
	if err != nil {
		return nil, err
	}

	cards := make([]store.Flashcard, len(items))
	for i, item := range items {
		cards[i] = store.Flashcard{
			Question:    item.Question,
			Answer:      item.Answer,
			Explanation: item.Explanation,
		}
	}

	parentCreated, err := s.store.CreateFlashcardSetWithCards(&set, cards)
	if err != nil {
		if parentCreated {
			return nil, fmt.Errorf("%w: flashcard set %s: %v", ErrPartialPersistence, set.ID, err)
		}
		return nil, err
	}

	s.log.Info("flashcards generated", zap.String("set_id", set.ID), zap.Int("cards", len(cards)))

	if set.WorkspaceID != nil {
		s.postArtifactMessage(*set.WorkspaceID, fmt.Sprintf("Generated %d flashcards", len(cards)), &set.ID, nil)
	}
	return &FlashcardSetDetail{FlashcardSet: set, Cards: cards}, nil
}

// GenerateSummary produces a study digest of the uploaded files, or with
// newMaterial a rewritten standalone lesson. Nothing is persisted; the text
// goes straight back to the caller.
func (s *GenerationService) GenerateSummary(ctx context.Context, p Principal, uploads []Upload, newMaterial bool) (string, error) {
	if len(uploads) == 0 {
		return "", fmt.Errorf("%w: at least one file is required", ErrValidation)
	}

	sources := PromptSources{Files: encodeUploads(uploads)}
	instruction := SummaryInstruction
	if newMaterial {
		instruction = NewMaterialInstruction
	}
	return s.gen.GenerateText(ctx, s.thinkingModel, BuildParts(instruction, sources))
}

// MaterialRequest describes a long-form study guide generation.
type MaterialRequest struct {
	Topic       string
	Pages       int
	UserMessage string
	Uploads     []Upload
}

// GenerateMaterial produces a long markdown guide, optionally grounded
// strictly in the uploaded files. The model reports via the success flag
// whether it could fulfil the request.
func (s *GenerationService) GenerateMaterial(ctx context.Context, p Principal, req MaterialRequest) (*MaterialResult, error) {
	if req.Topic == "" && req.UserMessage == "" && len(req.Uploads) == 0 {
		return nil, fmt.Errorf("%w: a topic, message or files are required", ErrValidation)
	}

	sources := PromptSources{Files: encodeUploads(req.Uploads)}
	instruction := MaterialGuideInstruction(req.Topic, req.Pages, req.UserMessage, len(req.Uploads) > 0)

	raw, err := s.gen.GenerateJSON(ctx, s.thinkingModel, BuildParts(instruction, sources), MaterialSchema())
	if err != nil {
		return nil, err
	}
	return DecodeMaterial(raw)
}

// SuggestQuestions proposes three study questions. With fileURL set they are
// drawn from that file's stored summary when available, falling back to the
// file content; otherwise from the whole workspace corpus.
func (s *GenerationService) SuggestQuestions(ctx context.Context, p Principal, workspaceID, fileURL string) ([]string, error) {
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}

	var sources PromptSources
	var instruction string

	if fileURL != "" {
		file, err := s.store.GetFileByPath(fileURL, workspaceID)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, fmt.Errorf("%w: file at %s", ErrNotFound, fileURL)
		}
		if file.Summary != "" {
			instruction = fmt.Sprintf("%s\n\nSummary:\n%s", SuggestSummaryInstruction, file.Summary)
		} else {
			sources.Files, err = encodeFiles(ctx, s.cache, []store.File{*file})
			if err != nil {
				return nil, err
			}
			instruction = SuggestWorkspaceInstruction
		}
	} else {
		sources.Files, _, err = s.workspaceSources(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		if len(sources.Files) == 0 {
			return nil, fmt.Errorf("%w: workspace has no files to suggest questions from", ErrValidation)
		}
		instruction = SuggestWorkspaceInstruction
	}

	raw, err := s.gen.GenerateJSON(ctx, s.regularModel, BuildParts(instruction, sources), StringListSchema("Three suggested study questions"))
	if err != nil {
		return nil, err
	}
	return DecodeStringList(raw)
}

// RandomFacts returns eight short educational facts across subjects.
func (s *GenerationService) RandomFacts(ctx context.Context) ([]string, error) {
	raw, err := s.gen.GenerateJSON(ctx, s.regularModel, BuildParts(RandomFactsInstruction, PromptSources{}), StringListSchema("Eight educational facts"))
	if err != nil {
		return nil, err
	}
	return DecodeStringList(raw)
}

// RandomQuestions returns three self-contained study questions.
func (s *GenerationService) RandomQuestions(ctx context.Context) ([]string, error) {
	raw, err := s.gen.GenerateJSON(ctx, s.regularModel, BuildParts(RandomQuestionsInstruction, PromptSources{}), StringListSchema("Three educational questions"))
	if err != nil {
		return nil, err
	}
	return DecodeStringList(raw)
}

// workspaceSources gathers the full corpus of a workspace: all documents and
// images resolved through the fetch cache, plus video metadata.
func (s *GenerationService) workspaceSources(ctx context.Context, workspaceID string) ([]EncodedFile, []store.Video, error) {
	pdfs, err := s.store.ListWorkspaceFiles(workspaceID, store.FileKindPDF)
	if err != nil {
		return nil, nil, err
	}
	images, err := s.store.ListWorkspaceFiles(workspaceID, store.FileKindImage)
	if err != nil {
		return nil, nil, err
	}
	videos, err := s.store.ListVideos(workspaceID)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := encodeFiles(ctx, s.cache, append(pdfs, images...))
	if err != nil {
		return nil, nil, err
	}
	return encoded, videos, nil
}

// postArtifactMessage appends a pointer to a generated artifact to the
// workspace chat in the background.
func (s *GenerationService) postArtifactMessage(workspaceID, text string, flashcardSetID, quizID *string) {
	s.runner.Submit("artifact-message", func(context.Context) error {
		chat, err := s.store.GetWorkspaceChat(workspaceID)
		if err != nil {
			return err
		}
		if chat == nil {
			return nil
		}
		msg := store.Message{
			ChatID:         chat.ID,
			Text:           text,
			FromUser:       false,
			FlashcardSetID: flashcardSetID,
			QuizID:         quizID,
		}
		return s.store.CreateMessage(&msg)
	})
}

func encodeUploads(uploads []Upload) []EncodedFile {
	encoded := make([]EncodedFile, len(uploads))
	for i, u := range uploads {
		encoded[i] = EncodedFile{
			MIMEType: u.ContentType,
			Data:     base64.StdEncoding.EncodeToString(u.Data),
		}
	}
	return encoded
}
