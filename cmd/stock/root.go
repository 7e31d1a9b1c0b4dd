package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/Spok95/obraz-stock/internal/config"
	"github.com/Spok95/obraz-stock/internal/domain/materials"
	"github.com/Spok95/obraz-stock/internal/infra/db"
	"github.com/Spok95/obraz-stock/internal/infra/logger"
)

const defaultConfigPath = "config/example.yaml"

// inventory — операции склада, которыми пользуется CLI.
type inventory interface {
	List(ctx context.Context) []materials.Material
	ListTypes(ctx context.Context) []materials.Type
	UsedIn(ctx context.Context, materialID int64) []materials.Usage
	Add(ctx context.Context, in materials.Input) (int64, error)
	Update(ctx context.Context, id int64, in materials.Input) error
	Delete(ctx context.Context, id int64) error
	OnListError(fn func(error))
}

// app — всё, что нужно командам: конфиг, лог и одно соединение со складом
// на весь процесс.
type app struct {
	configPath string
	jsonOut    bool

	cfg   config.Config
	log   *slog.Logger
	pool  *pgxpool.Pool
	store inventory

	watching bool
	mu       sync.Mutex
	listErr  error // последняя ошибка загрузки списка, см. loadMaterials
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "stock",
		Short:         "Склад материалов — ООО «Образ плюс»",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "path to YAML config")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output as JSON")

	root.AddCommand(
		newMaterialsCmd(a),
		newTypesCmd(a),
		newExportCmd(a),
		newDBCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.log == nil {
		a.log = logger.NewWithWriter(cfg.App.Env, cmd.ErrOrStderr())
	}
	return nil
}

// connect открывает соединение при первом обращении; дальше все команды
// работают через тот же склад.
func (a *app) connect(cmd *cobra.Command) (inventory, error) {
	if a.store == nil {
		pool, err := db.Connect(cmd.Context(), a.cfg.Postgres.ConnString())
		if err != nil {
			a.log.Error("db connect failed", "err", err)
			return nil, fmt.Errorf("подключение к БД: %w", err)
		}
		a.log.Debug("db connected")
		a.pool = pool
		a.store = materials.NewRepo(pool, a.log)
	}
	if !a.watching {
		stderr := cmd.ErrOrStderr()
		a.store.OnListError(func(err error) {
			a.mu.Lock()
			a.listErr = err
			a.mu.Unlock()
			fmt.Fprintf(stderr, "Не удалось загрузить материалы: %v\n", err)
		})
		a.watching = true
	}
	return a.store, nil
}

// loadMaterials отличает пустой склад от неудачной загрузки: List в обоих
// случаях возвращает пустой список.
func (a *app) loadMaterials(cmd *cobra.Command, store inventory) ([]materials.Material, error) {
	a.mu.Lock()
	a.listErr = nil
	a.mu.Unlock()

	items := store.List(cmd.Context())

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listErr != nil {
		return nil, fmt.Errorf("не удалось загрузить материалы: %w", a.listErr)
	}
	return items, nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
