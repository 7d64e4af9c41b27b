package main

import (
	"context"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"

	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/server"
	"github.com/wegavilla/server/internal/server/service"
	"github.com/wegavilla/server/internal/session"
)

const dbname = "wegavilla.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "wegavilla",
		Short:   "Wega Villa booking backend",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

func kdf(l int, k []byte) []byte {
	nhash := func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	}

	payload := make([]byte, l)

	kdf := hkdf.New(nhash, k, nil, nil)
	_, err := io.ReadFull(kdf, payload)
	if err != nil {
		panic(err)
	}

	return payload
}

// seedAdmin makes sure an administrator exists, otherwise nothing could ever
// reach the privileged surface on a fresh database.
func seedAdmin(konf *koanf.Koanf, db database.Client, log logrus.FieldLogger) error {
	email := konf.String("admin.email")
	if email == "" {
		email = "admin@wega.com"
	}
	name := konf.String("admin.name")
	if name == "" {
		name = "Administrator"
	}
	password := konf.String("admin.password")
	if password == "" {
		password = "admin123"
	}

	created, err := service.SeedAdmin(db, email, name, password)
	if err != nil {
		return errors.Wrap(err, "could not seed administrator account")
	}
	if created {
		log.Infof("Administrator account %s created", email)
		if konf.String("admin.password") == "" {
			log.Warn("admin.password not set, the default password is in use")
		}
	}
	return nil
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			if err := database.StormInit(dbnameWithPath(konf.String("database_path"))); err != nil {
				return err
			}

			db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			return seedAdmin(konf, db, logrus.StandardLogger())
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			return database.StormReIndex(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			// Missing signing material is the only fatal condition;
			// everything else fails per request.
			if konf.String("secret_key") == "" {
				return errors.New("secret_key not found")
			}

			db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			log := logrus.New()

			if err := seedAdmin(konf, db, log); err != nil {
				return err
			}

			privileged := konf.Strings("session.privileged_roles")
			if len(privileged) == 0 {
				privileged = []string{"ADMIN", "MANAGER"}
			}

			registry := session.NewRegistry(konf.Duration("session.idle_timeout"), privileged)
			tokens := session.NewTokenManager(
				kdf(32, konf.MustBytes("secret_key")),
				konf.Duration("token.ttl"),
			)

			engine := server.EchoEngine(server.Controller{
				Version:                     version,
				Database:                    db,
				NoRegistration:              konf.Bool("no_registration"),
				Tokens:                      tokens,
				Registry:                    registry,
				EnforceSessionForPrivileged: konf.Bool("session.enforce_for_privileged"),
				Logger:                      log,
			})
			server.PrintRoutes(engine)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sweeper := session.NewSweeper(registry, konf.Duration("session.sweep_interval"), log)
			go sweeper.Run(ctx)

			address := konf.String("address")
			log.Infof("Server listening on %s", address)

			go func() {
				<-ctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := engine.Shutdown(sctx); err != nil {
					log.WithError(err).Error("could not shutdown server gracefully")
				}
			}()

			if err := engine.Start(address); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "could not run server")
			}
			return nil
		},
	}
)
