package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/roleplay/roleplay-go/internal/crypto"
	"github.com/roleplay/roleplay-go/internal/mail"
	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
	"github.com/roleplay/roleplay-go/internal/validation"
)

// DefaultResetTokenTTL is how long a reset token stays redeemable.
const DefaultResetTokenTTL = 2 * time.Hour

// PasswordService issues and redeems password reset tokens.
type PasswordService struct {
	store    repository.Store
	hasher   PasswordHasher
	mailer   mail.Sender
	mailFrom string
	ttl      time.Duration
	now      func() time.Time
}

// NewPasswordService creates a new PasswordService.
func NewPasswordService(store repository.Store, hasher PasswordHasher, mailer mail.Sender, mailFrom string, ttl time.Duration) *PasswordService {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &PasswordService{
		store:    store,
		hasher:   hasher,
		mailer:   mailer,
		mailFrom: mailFrom,
		ttl:      ttl,
		now:      time.Now,
	}
}

// ForgotPassword mails a reset link to the owner of req.Email. Unknown
// addresses succeed silently.
func (s *PasswordService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	base, err := url.Parse(req.ResetPasswordURL)
	if err != nil {
		return validation.Field("resetPasswordUrl", "url", "resetPasswordUrl must be a valid url")
	}

	user, err := s.store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := crypto.RandomToken(crypto.ResetTokenLength)
	if err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		err := tx.ResetTokens().Create(ctx, &model.PasswordResetToken{
			UserID:    user.ID,
			Token:     token,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return err
		}

		msg, err := mail.PasswordReset(s.mailFrom, user.Email, user.Username, resetLink(base, token))
		if err != nil {
			return err
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("send reset mail: %w", err)
		}
		return nil
	})
}

// ResetPassword redeems token and sets the owner's password. A token can be
// redeemed once. Expired tokens are left in place.
func (s *PasswordService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		token, err := tx.ResetTokens().Find(ctx, req.Token)
		if err != nil {
			return mapResetTokenNotFound(err)
		}

		if s.now().Sub(token.CreatedAt) > s.ttl {
			return ErrTokenExpired
		}

		if err := tx.ResetTokens().Consume(ctx, req.Token); err != nil {
			return mapResetTokenNotFound(err)
		}

		user, err := tx.Users().GetByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		user.PasswordHash = hash
		return tx.Users().Update(ctx, user)
	})
}

// resetLink appends token to base, keeping any query it already has.
func resetLink(base *url.URL, token string) string {
	u := *base
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func mapResetTokenNotFound(err error) error {
	if errors.Is(err, repository.ErrResetTokenNotFound) {
		return ErrResetTokenNotFound
	}
	return err
}
