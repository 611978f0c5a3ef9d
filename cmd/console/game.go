package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/render"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/session"
)

const (
	commandReset = "reset"
	commandQuit  = "quit"
)

var errBadMove = errors.New("expected \"<row> <column>\", \"reset\" or \"quit\"")

// run asks for both names, then reads one move per line until quit or end of input.
func run(in io.Reader, out io.Writer, opts ...termenv.OutputOption) error {
	scanner := bufio.NewScanner(in)
	console := render.NewConsole(out, opts...)

	game, err := startSession(scanner, out, console)
	if err != nil {
		return err
	}

	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch line {
		case "":
			continue
		case commandQuit:
			return nil
		case commandReset:
			fmt.Fprintln(out, "New round.")
			if _, err = game.Reset(); err != nil {
				return fmt.Errorf("failed to reset round: %w", err)
			}
			continue
		}

		pos, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		if _, err = game.Play(pos); err != nil {
			console.Rejected(err)
		}
	}

	return scanner.Err()
}

func startSession(scanner *bufio.Scanner, out io.Writer, console *render.Console) (*session.Session, error) {
	for {
		names := make([]string, 0, 2)

		for _, prompt := range []string{"Player one (X): ", "Player two (O): "} {
			fmt.Fprint(out, prompt)

			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, fmt.Errorf("failed to read player name: %w", err)
				}
				return nil, io.ErrUnexpectedEOF
			}

			names = append(names, scanner.Text())
		}

		game, err := session.New(pkg.GenerateGameID(), names[0], names[1], console)
		if errors.Is(err, apperror.ErrEmptyPlayerName) {
			console.Rejected(err)
			continue
		}

		return game, err
	}
}

func parseMove(line string) (entity.Position, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return entity.Position{}, errBadMove
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Position{}, errBadMove
	}

	column, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Position{}, errBadMove
	}

	return entity.Position{Row: row, Column: column}, nil
}
