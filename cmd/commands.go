package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/okian/janus/internal/domain/intent"
	"github.com/okian/janus/pkg/logger"
)

type command int

const (
	cmdNone command = iota
	cmdUp
	cmdDown
	cmdMute
	cmdQuit
)

// parseCommand maps one input line to a command. Unknown input is ignored.
func parseCommand(line string) command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "+", "up", "=":
		return cmdUp
	case "-", "down", "_":
		return cmdDown
	case "m", "mute":
		return cmdMute
	case "q", "quit", "exit":
		return cmdQuit
	default:
		return cmdNone
	}
}

type submitter interface {
	Submit(ctx context.Context, delta int64) error
}

type flipper interface {
	Flip() bool
}

// readCommands acts on input lines until quit, EOF or ctx is done.
func readCommands(ctx context.Context, in io.Reader, svc submitter, mute flipper) {
	log := logger.Get().Named("input")

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return
			}
			switch parseCommand(line) {
			case cmdUp:
				submit(ctx, log, svc, 1)
			case cmdDown:
				submit(ctx, log, svc, -1)
			case cmdMute:
				log.Info(ctx, "mute toggled", logger.Bool("muted", mute.Flip()))
			case cmdQuit:
				return
			case cmdNone:
			}
		}
	}
}

func submit(ctx context.Context, log logger.Logger, svc submitter, delta int64) {
	err := svc.Submit(ctx, delta)
	if err != nil && !errors.Is(err, intent.ErrNotSent) {
		log.Warn(ctx, "intent refused", logger.Error(err))
	}
}
