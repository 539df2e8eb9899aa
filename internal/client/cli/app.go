package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/cloudvault/internal/client/api"
	"github.com/dmitrijs2005/cloudvault/internal/client/config"
	"github.com/dmitrijs2005/cloudvault/internal/client/models"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Check(ctx context.Context) (*models.User, error)
	List(ctx context.Context) ([]models.File, error)
	CreateFolder(ctx context.Context, name string, parentID *int64) (*models.File, error)
	Upload(ctx context.Context, name string, r io.Reader, parentID *int64) (*models.File, error)
	Update(ctx context.Context, id int64, patch models.Patch) (*models.File, error)
	Delete(ctx context.Context, id int64) error
	Download(ctx context.Context, filepath string, w io.Writer) (int64, error)
}

type App struct {
	config *config.Config
	api    apiClient
	user   *models.User
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "CloudVault CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.user.Username)
}

// sessionErr forgets the user when the server no longer accepts the session.
func (a *App) sessionErr(err error) error {
	if errors.Is(err, api.ErrUnauthorized) && a.user != nil {
		a.user = nil
		return fmt.Errorf("session expired, please login again: %w", err)
	}
	return err
}
