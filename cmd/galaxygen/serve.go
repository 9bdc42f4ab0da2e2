package main

import (
	"context"
	"errors"
	"time"

	"github.com/lox/galaxygen/cmd/galaxygen/shared"
	"github.com/lox/galaxygen/internal/server"
)

type ServeCmd struct {
	GalaxyFlags `embed:""`

	Addr string `help:"Listen address (overrides the server block)"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	env, err := loadEnvironment(globals, &c.GalaxyFlags)
	if err != nil {
		return err
	}
	ctx := shared.SetupSignalHandler(env.logger)

	sess := env.session(&c.GalaxyFlags)
	if _, err := sess.Regenerate(ctx); err != nil {
		return err
	}

	addr := env.config.Address()
	if c.Addr != "" {
		addr = c.Addr
	}
	srv := server.NewServer(addr, sess, env.logger.WithPrefix("server"), server.Options{
		AllowedOrigins:   env.config.Server.AllowedOrigins,
		RegenerateRate:   env.config.Server.RegenerateRate,
		RegenerateBurst:  env.config.Server.RegenerateBurst,
		RotationInterval: env.config.RotationInterval(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	env.logger.Info("Server stopped")
	return nil
}
