package subscriber

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// legacy contact forms put the phone on the first line of notes
	phonePrefix = regexp.MustCompile(`(?i)^phone:[ \t]*([^\r\n]*)(?:\r?\n)+`)
)

// SubscribeKind says which branch Subscribe took.
type SubscribeKind int

const (
	KindSubscribed SubscribeKind = iota
	KindResubscribed
	KindContactReceived
)

func (k SubscribeKind) Message() string {
	switch k {
	case KindResubscribed:
		return "Welcome back! You have been re-subscribed."
	case KindContactReceived:
		return "Thank you for your message. I will be in touch soon."
	default:
		return "Thank you for joining the family! You will receive updates about new work."
	}
}

type SubscribeInput struct {
	Email  string
	Name   string
	Source string
	Notes  string
	Phone  string
}

type SubscribeResult struct {
	Kind       SubscribeKind
	Subscriber *models.SubscriberModel
}

// UpdateInput is a partial update; nil fields are left alone.
type UpdateInput struct {
	Name       *string
	Source     *string
	Tags       *[]string
	Notes      *string
	Phone      *string
	Subscribed *bool
	Read       *bool
}

type Stats struct {
	Total        int64                   `json:"total"`
	Subscribed   int64                   `json:"subscribed"`
	Unsubscribed int64                   `json:"unsubscribed"`
	BySource     map[models.Source]int64 `json:"bySource"`
}

type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Subscribe adds an email to the mailing list or, for partner submissions,
// records a contact message against it.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (*SubscribeResult, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	source, err := parseSource(in.Source)
	if err != nil {
		return nil, err
	}
	phone, notes := SplitPhone(in.Phone, in.Notes)
	name := strings.TrimSpace(in.Name)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if source.IsContact() {
		sub, err := s.receiveContact(ctx, existing, email, name, notes, phone)
		if err != nil {
			return nil, err
		}
		return &SubscribeResult{Kind: KindContactReceived, Subscriber: sub}, nil
	}

	now := s.now()
	if existing != nil {
		if existing.Subscribed {
			return nil, apperr.AlreadySubscribed()
		}
		existing.Subscribed = true
		existing.SubscribedAt = &now
		existing.UnsubscribedAt = nil
		if name != "" {
			existing.Name = name
		}
		if in.Source != "" {
			existing.Source = source
		}
		if notes != "" {
			existing.Notes = notes
		}
		if phone != "" {
			existing.Phone = phone
		}
		existing.Touch(now)
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return &SubscribeResult{Kind: KindResubscribed, Subscriber: existing}, nil
	}

	sub := &models.SubscriberModel{
		Email:        email,
		Name:         name,
		Source:       source,
		Subscribed:   true,
		SubscribedAt: &now,
		Tags:         []string{},
		Notes:        notes,
		Phone:        phone,
	}
	sub.Touch(now)
	if err := s.repo.Insert(ctx, sub); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.AlreadySubscribed()
		}
		return nil, err
	}
	return &SubscribeResult{Kind: KindSubscribed, Subscriber: sub}, nil
}

// receiveContact upserts a contact submission. The subscription state of an
// existing record is left as it was; the message is marked unread again.
func (s *Service) receiveContact(ctx context.Context, existing *models.SubscriberModel, email, name, notes, phone string) (*models.SubscriberModel, error) {
	now := s.now()
	if existing != nil {
		if name != "" {
			existing.Name = name
		}
		if notes != "" {
			existing.Notes = notes
		}
		if phone != "" {
			existing.Phone = phone
		}
		existing.Source = models.SourcePartner
		existing.Read = false
		existing.ReadAt = nil
		existing.Touch(now)
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	sub := &models.SubscriberModel{
		Email:  email,
		Name:   name,
		Source: models.SourcePartner,
		Tags:   []string{},
		Notes:  notes,
		Phone:  phone,
	}
	sub.Touch(now)
	if err := s.repo.Insert(ctx, sub); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Validation("Failed to submit your message. Please try again.")
		}
		return nil, err
	}
	s.logger.Info("contact message received", zap.String("email", email))
	return sub, nil
}

// Unsubscribe removes an email from the mailing list. The record is kept.
func (s *Service) Unsubscribe(ctx context.Context, rawEmail string) error {
	email := strings.ToLower(strings.TrimSpace(rawEmail))
	if email == "" {
		return apperr.Validation("Email is required")
	}
	sub, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Email not found in our list")
		}
		return err
	}
	now := s.now()
	sub.Subscribed = false
	sub.UnsubscribedAt = &now
	sub.Touch(now)
	return s.repo.Save(ctx, sub)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.SubscriberModel, error) {
	f.Search = strings.TrimSpace(f.Search)
	if f.Source != "" && !f.Source.Valid() {
		return nil, apperr.Validation("Invalid source")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, rawID string, in UpdateInput) (*models.SubscriberModel, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	now := s.now()
	if in.Name != nil {
		sub.Name = strings.TrimSpace(*in.Name)
	}
	if in.Source != nil {
		source := models.Source(strings.TrimSpace(*in.Source))
		if !source.Valid() {
			return nil, apperr.Validation("Invalid source")
		}
		sub.Source = source
	}
	if in.Tags != nil {
		sub.Tags = NormalizeTags(*in.Tags)
	}
	if in.Notes != nil {
		sub.Notes = *in.Notes
	}
	if in.Phone != nil {
		sub.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Subscribed != nil {
		sub.Subscribed = *in.Subscribed
		if sub.Subscribed {
			sub.SubscribedAt = &now
			sub.UnsubscribedAt = nil
		} else {
			sub.UnsubscribedAt = &now
		}
	}
	if in.Read != nil {
		sub.Read = *in.Read
		if sub.Read {
			sub.ReadAt = &now
		} else {
			sub.ReadAt = nil
		}
	}
	sub.Touch(now)
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, notFound(err)
	}
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	return notFound(s.repo.Delete(ctx, id))
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	yes, no := true, false
	total, err := s.repo.Count(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	subscribed, err := s.repo.Count(ctx, ListFilter{Subscribed: &yes})
	if err != nil {
		return nil, err
	}
	unsubscribed, err := s.repo.Count(ctx, ListFilter{Subscribed: &no})
	if err != nil {
		return nil, err
	}
	bySource, err := s.repo.CountBySource(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, Subscribed: subscribed, Unsubscribed: unsubscribed, BySource: bySource}, nil
}

// UnreadContactCount returns the number of contact messages not yet read.
func (s *Service) UnreadContactCount(ctx context.Context) (int64, error) {
	unread := false
	return s.repo.Count(ctx, ListFilter{Source: models.SourcePartner, Read: &unread})
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Subscriber not found")
	}
	return err
}

// NormalizeEmail trims, lower-cases and validates an address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Validation("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return "", apperr.Validation("Please provide a valid email address")
	}
	return email, nil
}

func parseSource(raw string) (models.Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.SourceHomepage, nil
	}
	source := models.Source(raw)
	if !source.Valid() {
		return "", apperr.Validation("Invalid source")
	}
	return source, nil
}

// ParseID parses a hex ObjectID.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid subscriber id")
	}
	return id, nil
}

// SplitPhone returns the phone number and message body. An explicit phone
// wins; otherwise a leading "Phone: <n>" line is lifted out of notes.
func SplitPhone(phone, notes string) (string, string) {
	phone = strings.TrimSpace(phone)
	if m := phonePrefix.FindStringSubmatch(notes); m != nil {
		if phone == "" {
			phone = strings.TrimSpace(m[1])
		}
		notes = notes[len(m[0]):]
	}
	return phone, strings.TrimSpace(notes)
}

// NormalizeTags trims entries, drops blanks and duplicates, and keeps order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
