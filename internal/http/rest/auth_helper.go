package rest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/values"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = errors.New("bad credentials")

func (api *API) LoginHelper(ctx context.Context, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	req.Username = strings.TrimSpace(req.Username)

	user, err := api.Repo.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, ErrNoRecord) {
		return model.LoginResponse{}, values.NotAuthorised, "invalid username or password", errBadCredentials
	}
	if err != nil {
		return model.LoginResponse{}, values.Error, "unable to look up user", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "invalid username or password", errBadCredentials
	}

	token, expiresAt, err := api.createToken(user.ID)
	if err != nil {
		return model.LoginResponse{}, values.Error, fmt.Sprintf("%s [CrTk]", values.SystemErr), err
	}

	if err := api.Repo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("[Auth]: unable to record last login for %s: %v", user.Username, err)
	}

	return model.LoginResponse{
		Token:       token,
		ExpiresAt:   expiresAt,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}, values.Success, "login successful", nil
}

// EnsureDefaultUser creates the shared account on first start. Without a
// configured password a random one is generated and printed once.
func (api *API) EnsureDefaultUser(ctx context.Context) error {
	_, err := api.Repo.GetUserByUsername(ctx, api.Config.DefaultUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNoRecord) {
		return err
	}

	password := api.Config.DefaultPassword
	generated := password == ""
	if generated {
		password = util.RandomPassword(12)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = api.Repo.CreateUser(ctx, model.User{
		Username:     api.Config.DefaultUsername,
		PasswordHash: string(hash),
		DisplayName:  api.Config.DefaultDisplayName,
	})
	if err != nil {
		return err
	}

	if generated {
		log.Printf("[Auth]: created user %q with password %q, set DEFAULT_PASSWORD to choose your own", api.Config.DefaultUsername, password)
	} else {
		log.Printf("[Auth]: created user %q", api.Config.DefaultUsername)
	}
	return nil
}
