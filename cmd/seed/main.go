// seed importa usuarios y productos desde CSV (UTF-8 o Windows-1252).
//
// Uso:
//
//	go run ./cmd/seed -users usuarios.csv -products productos.csv -encoding windows-1252
//
// Con APP_STORAGE=memory solo valida los archivos (no hay dónde persistir).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/pyme-erp/internal/application/usecase"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
	"github.com/jhoicas/pyme-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/pyme-erp/pkg/config"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

func main() {
	usersPath := flag.String("users", "", "CSV de usuarios (username,password,role,employee_id,is_active)")
	productsPath := flag.String("products", "", "CSV de productos (name,sku,description,price,currency_code,stock,is_active)")
	encoding := flag.String("encoding", "utf-8", "codificación de los CSV: utf-8 | windows-1252 | iso-8859-1")
	flag.Parse()

	if *usersPath == "" && *productsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	var target *seedTarget
	if cfg.App.Storage == config.StoragePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		target = &seedTarget{
			users:    postgres.NewUserRepository(pool),
			products: usecase.NewProductUseCase(postgres.NewTxRunner(pool)),
		}
	} else {
		log.Warn().Str("storage", cfg.App.Storage).Msg("almacenamiento no persistente: solo se validan los archivos")
	}

	s := &seeder{target: target, allowPlaintext: cfg.Seed.AllowPlaintext, log: log}
	if *usersPath != "" {
		if err := withFile(*usersPath, *encoding, s.users(ctx)); err != nil {
			log.Fatal().Err(err).Str("file", *usersPath).Msg("importar usuarios")
		}
	}
	if *productsPath != "" {
		if err := withFile(*productsPath, *encoding, s.products(ctx)); err != nil {
			log.Fatal().Err(err).Str("file", *productsPath).Msg("importar productos")
		}
	}
	log.Info().Msg("seed completado")
}

func withFile(path, encoding string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := decodeReader(f, encoding)
	if err != nil {
		return err
	}
	return fn(r)
}

// seedTarget destino persistente; nil = solo validar.
type seedTarget struct {
	users    repository.UserRepository
	products *usecase.ProductUseCase
}

type seeder struct {
	target         *seedTarget
	allowPlaintext bool
	log            *logger.Logger
}

func (s *seeder) users(ctx context.Context) func(io.Reader) error {
	return func(r io.Reader) error {
		users, err := parseUsers(r, s.allowPlaintext)
		if err != nil {
			return err
		}
		created := 0
		for _, u := range users {
			if s.target == nil {
				continue
			}
			if err := s.target.users.Create(ctx, u); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					s.log.Warn().Str("username", u.Username).Msg("usuario existente, se omite")
					continue
				}
				return fmt.Errorf("crear usuario %s: %w", u.Username, err)
			}
			created++
		}
		s.log.Info().Int("leidos", len(users)).Int("creados", created).Msg("usuarios")
		return nil
	}
}

func (s *seeder) products(ctx context.Context) func(io.Reader) error {
	return func(r io.Reader) error {
		products, err := parseProducts(r)
		if err != nil {
			return err
		}
		created := 0
		for _, in := range products {
			if s.target == nil {
				continue
			}
			if _, err := s.target.products.Create(ctx, in); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					s.log.Warn().Str("sku", in.SKU).Msg("producto existente, se omite")
					continue
				}
				return fmt.Errorf("crear producto %q: %w", in.Name, err)
			}
			created++
		}
		s.log.Info().Int("leidos", len(products)).Int("creados", created).Msg("productos")
		return nil
	}
}
