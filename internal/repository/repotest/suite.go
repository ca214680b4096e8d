// Package repotest holds a behavioural suite every repository.Store
// implementation must pass.
package repotest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

// StoreSuite runs against the Store set by the embedding suite.
// Records are keyed by fresh ids and emails so tests share one database.
type StoreSuite struct {
	suite.Suite
	Store repository.Store
	Ctx   context.Context
}

func (s *StoreSuite) now() time.Time {
	// databases keep microseconds at most
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *StoreSuite) newUser() *models.User {
	email := fmt.Sprintf("User-%s@Example.com", uuid.NewString()[:8])
	return models.NewUser(models.UserFields{Name: "Ana", Email: email, PasswordHash: "hash"}, s.now())
}

func (s *StoreSuite) newTokenValue() string {
	return fmt.Sprintf("%06d", uuid.New().ID()%1000000)
}

func (s *StoreSuite) TestPing() {
	s.Require().NoError(s.Store.Ping(s.Ctx))
}

func (s *StoreSuite) TestUserLifecycle() {
	u := s.newUser()
	s.Require().NoError(s.Store.Users().Create(s.Ctx, u))

	got, err := s.Store.Users().GetByEmail(s.Ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
	s.False(got.Confirmed)

	got.Confirm(s.now())
	got.SetPassword("new-hash", s.now())
	s.Require().NoError(s.Store.Users().Update(s.Ctx, got))

	byID, err := s.Store.Users().GetByID(s.Ctx, u.ID)
	s.Require().NoError(err)
	s.True(byID.Confirmed)
	s.Equal("new-hash", byID.PasswordHash)
}

func (s *StoreSuite) TestUserEmailIsCaseInsensitive() {
	u := s.newUser()
	s.Require().NoError(s.Store.Users().Create(s.Ctx, u))

	dup := models.NewUser(models.UserFields{Name: "Otra", Email: strings.ToUpper(u.Email), PasswordHash: "x"}, s.now())
	s.ErrorIs(s.Store.Users().Create(s.Ctx, dup), repository.ErrUserAlreadyExists)

	got, err := s.Store.Users().GetByEmail(s.Ctx, strings.ToUpper(u.Email))
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
}

func (s *StoreSuite) TestUserNotFound() {
	_, err := s.Store.Users().GetByEmail(s.Ctx, "missing-"+uuid.NewString()+"@example.com")
	s.ErrorIs(err, repository.ErrUserNotFound)

	_, err = s.Store.Users().GetByID(s.Ctx, uuid.New())
	s.ErrorIs(err, repository.ErrUserNotFound)

	s.ErrorIs(s.Store.Users().Update(s.Ctx, s.newUser()), repository.ErrUserNotFound)
}

func (s *StoreSuite) TestTokenLifecycle() {
	u := s.newUser()
	s.Require().NoError(s.Store.Users().Create(s.Ctx, u))

	value := s.newTokenValue()
	tok := models.NewToken(u.ID, value, models.TokenConfirmAccount, time.Hour, s.now())
	s.Require().NoError(s.Store.Tokens().Create(s.Ctx, tok))

	got, err := s.Store.Tokens().GetByToken(s.Ctx, value, models.TokenConfirmAccount)
	s.Require().NoError(err)
	s.Equal(u.ID, got.UserID)
	s.Equal(models.TokenConfirmAccount, got.Purpose)
	s.WithinDuration(tok.ExpiresAt, got.ExpiresAt, time.Millisecond)

	_, err = s.Store.Tokens().GetByToken(s.Ctx, value, models.TokenResetPassword)
	s.ErrorIs(err, repository.ErrTokenNotFound)

	s.Require().NoError(s.Store.Tokens().Delete(s.Ctx, got.ID))
	_, err = s.Store.Tokens().GetByToken(s.Ctx, value, models.TokenConfirmAccount)
	s.ErrorIs(err, repository.ErrTokenNotFound)
	s.ErrorIs(s.Store.Tokens().Delete(s.Ctx, got.ID), repository.ErrTokenNotFound)
}

func (s *StoreSuite) TestTokenDeleteByUser() {
	u := s.newUser()
	s.Require().NoError(s.Store.Users().Create(s.Ctx, u))

	confirm := models.NewToken(u.ID, s.newTokenValue(), models.TokenConfirmAccount, time.Hour, s.now())
	reset := models.NewToken(u.ID, s.newTokenValue(), models.TokenResetPassword, time.Hour, s.now())
	s.Require().NoError(s.Store.Tokens().Create(s.Ctx, confirm))
	s.Require().NoError(s.Store.Tokens().Create(s.Ctx, reset))

	s.Require().NoError(s.Store.Tokens().DeleteByUser(s.Ctx, u.ID, models.TokenConfirmAccount))

	_, err := s.Store.Tokens().GetByToken(s.Ctx, confirm.Token, models.TokenConfirmAccount)
	s.ErrorIs(err, repository.ErrTokenNotFound)
	_, err = s.Store.Tokens().GetByToken(s.Ctx, reset.Token, models.TokenResetPassword)
	s.NoError(err)
}

func (s *StoreSuite) TestTokenValueIsUnique() {
	u := s.newUser()
	s.Require().NoError(s.Store.Users().Create(s.Ctx, u))

	value := s.newTokenValue()
	first := models.NewToken(u.ID, value, models.TokenConfirmAccount, time.Hour, s.now())
	s.Require().NoError(s.Store.Tokens().Create(s.Ctx, first))

	second := models.NewToken(u.ID, value, models.TokenResetPassword, time.Hour, s.now())
	s.ErrorIs(s.Store.Tokens().Create(s.Ctx, second), repository.ErrTokenAlreadyExists)
}

func (s *StoreSuite) TestProjectLifecycle() {
	p := models.NewProject(models.ProjectFields{
		ProjectName: "Tienda Virtual",
		ClientName:  "Acme",
		Description: "Proyecto de ecommerce",
	}, s.now())
	s.Require().NoError(s.Store.Projects().Create(s.Ctx, p))

	got, err := s.Store.Projects().GetByID(s.Ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Tienda Virtual", got.ProjectName)
	s.Equal("Acme", got.ClientName)
	s.Equal("Proyecto de ecommerce", got.Description)

	list, err := s.Store.Projects().List(s.Ctx)
	s.Require().NoError(err)
	var found bool
	for _, item := range list {
		if item.ID == p.ID {
			found = true
		}
	}
	s.True(found)

	got.Apply(models.ProjectFields{ProjectName: "Tienda", ClientName: "Acme", Description: "Nueva"}, s.now())
	s.Require().NoError(s.Store.Projects().Update(s.Ctx, got))

	updated, err := s.Store.Projects().GetByID(s.Ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Nueva", updated.Description)

	s.Require().NoError(s.Store.Projects().Delete(s.Ctx, p.ID))
	_, err = s.Store.Projects().GetByID(s.Ctx, p.ID)
	s.ErrorIs(err, repository.ErrProjectNotFound)
	s.ErrorIs(s.Store.Projects().Update(s.Ctx, got), repository.ErrProjectNotFound)
	s.ErrorIs(s.Store.Projects().Delete(s.Ctx, p.ID), repository.ErrProjectNotFound)
}
