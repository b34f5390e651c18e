package transport

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultPortName is matched against sound card names by FindPort.
	DefaultPortName = "Circuit Tracks"

	cardsFile = "/proc/asound/cards"
	devDir    = "/dev/snd"
)

// Card is a sound card with raw MIDI devices.
type Card struct {
	Index int
	ID    string
	Name  string
	Ports []string
}

// cards lines look like " 1 [Tracks         ]: USB-Audio - Circuit Tracks".
var cardLine = regexp.MustCompile(`^\s*(\d+)\s+\[([^\]]*)\]:\s*(.*)$`)

// ListCards lists sound cards and their raw MIDI device files.
func ListCards() ([]Card, error) {
	return listCards(cardsFile, devDir)
}

func listCards(cardsPath, dev string) ([]Card, error) {
	f, err := os.Open(cardsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cards []Card
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m := cardLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}

		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		ports, err := filepath.Glob(filepath.Join(dev, fmt.Sprintf("midiC%dD*", idx)))
		if err != nil {
			return nil, err
		}

		cards = append(cards, Card{
			Index: idx,
			ID:    strings.TrimSpace(m[2]),
			Name:  strings.TrimSpace(m[3]),
			Ports: ports,
		})
	}

	return cards, sc.Err()
}

// FindPort returns the first raw MIDI device of the first card whose name
// contains name.
func FindPort(name string) (string, error) {
	return findPort(cardsFile, devDir, name)
}

func findPort(cardsPath, dev, name string) (string, error) {
	cards, err := listCards(cardsPath, dev)
	if err != nil {
		return "", err
	}

	for _, c := range cards {
		if strings.Contains(c.Name, name) || strings.Contains(c.ID, name) {
			if len(c.Ports) == 0 {
				return "", fmt.Errorf("card %d %q has no MIDI ports", c.Index, c.Name)
			}

			return c.Ports[0], nil
		}
	}

	return "", fmt.Errorf("no sound card matching %q: %w", name, os.ErrNotExist)
}
