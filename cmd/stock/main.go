package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Spok95/obraz-stock/internal/domain/materials"
)

const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// userError — ошибка ввода (неверный id, материал не найден); код выхода 1.
type userError string

func (e userError) Error() string { return string(e) }

func userErrorf(format string, args ...any) error {
	return userError(fmt.Sprintf(format, args...))
}

func exitCode(err error) int {
	var verr materials.ValidationErrors
	var uerr userError
	if errors.As(err, &verr) || errors.As(err, &uerr) {
		return exitUserError
	}
	return exitSysError
}
