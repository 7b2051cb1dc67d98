// Package deckimport turns deck files into the ordered card-name list the
// simulator draws from.
package deckimport

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// UnknownCardPrefix starts the name given to card ids the resolver does not know.
const UnknownCardPrefix = "Unknown Card ID: "

// UnknownCardName is the placeholder name for an unresolved card id.
func UnknownCardName(id int) string {
	return UnknownCardPrefix + strconv.Itoa(id)
}

// Resolver maps numeric card ids to card names.
type Resolver interface {
	CardName(ctx context.Context, id int) (name string, ok bool, err error)
}

// ParsedCard represents a single deck entry.
type ParsedCard struct {
	Quantity int
	Name     string
	ID       int // 0 for plain-text entries
}

// ParsedDeck represents a deck parsed from an import file.
type ParsedDeck struct {
	Format     string // "ydk" or "text"
	Main       []*ParsedCard
	Unresolved []int
	ParsedOK   bool
	Warnings   []string
}

// Cards expands the main deck into one name per physical copy, in file order.
func (d *ParsedDeck) Cards() []string {
	var cards []string
	for _, c := range d.Main {
		for i := 0; i < c.Quantity; i++ {
			cards = append(cards, c.Name)
		}
	}
	return cards
}

// Parser handles deck import parsing from .ydk files and plain card lists.
type Parser struct {
	resolver Resolver
}

// NewParser creates a new deck import parser. A nil resolver leaves every
// YDK id unresolved.
func NewParser(resolver Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse attempts to parse deck text. It tries YDK first, then falls back to a
// plain card list.
func (p *Parser) Parse(ctx context.Context, input string) (*ParsedDeck, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty deck file")
	}

	deck, err := p.ParseYDK(ctx, input)
	if err != nil {
		return nil, err
	}
	if deck.ParsedOK {
		return deck, nil
	}

	if deck := p.ParsePlainText(input); deck.ParsedOK {
		return deck, nil
	}

	return nil, fmt.Errorf("unable to parse deck format")
}

// LoadFile reads and parses a deck file.
func (p *Parser) LoadFile(ctx context.Context, path string) (*ParsedDeck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	return p.Parse(ctx, string(data))
}

// ParseYDK parses the YDK deck format. Only the main deck is read: parsing
// stops at "#extra". Comment and section lines ('#', '!') and non-numeric
// lines are skipped. Ids the resolver does not know become
// "Unknown Card ID: <id>".
//
// Format example:
//
//	#created by ...
//	#main
//	14558127
//	14558127
//	#extra
//	!side
//
// A resolver error aborts the import.
func (p *Parser) ParseYDK(ctx context.Context, input string) (*ParsedDeck, error) {
	deck := &ParsedDeck{Format: "ydk"}

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "#extra") {
			break
		}
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		id, err := strconv.Atoi(line)
		if err != nil {
			deck.Warnings = append(deck.Warnings,
				fmt.Sprintf("Line %d: Not a card id '%s'", i+1, line))
			continue
		}

		name, err := p.resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = UnknownCardName(id)
			deck.Unresolved = append(deck.Unresolved, id)
		}

		// Consecutive copies collapse into one entry.
		if n := len(deck.Main); n > 0 && deck.Main[n-1].ID == id {
			deck.Main[n-1].Quantity++
			continue
		}
		deck.Main = append(deck.Main, &ParsedCard{Quantity: 1, Name: name, ID: id})
	}

	deck.ParsedOK = len(deck.Main) > 0
	return deck, nil
}

func (p *Parser) resolve(ctx context.Context, id int) (string, error) {
	if p.resolver == nil {
		return "", nil
	}
	name, ok, err := p.resolver.CardName(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve card %d: %w", id, err)
	}
	if !ok {
		return "", nil
	}
	return name, nil
}

var (
	// "3x Ash Blossom & Joyous Spring"
	countedQuantity = regexp.MustCompile(`^(\d+)x\s+(.+)$`)
	// "3 Ash Blossom & Joyous Spring". Without the x only 0-3 is a quantity,
	// so a name like "7 Colored Fish" stays whole.
	bareQuantity = regexp.MustCompile(`^([0-3])\s+(.+)$`)
	// "Ash Blossom & Joyous Spring x3"
	trailingQuantity = regexp.MustCompile(`^(.+?)\s+x(\d+)$`)
)

// ParsePlainText parses a plain card list. Lines without a quantity count as
// one copy. "Main Deck" headers are skipped, and reading stops at an
// "Extra Deck" or "Side Deck" header.
func (p *Parser) ParsePlainText(input string) *ParsedDeck {
	deck := &ParsedDeck{Format: "text"}

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		header := strings.ToLower(strings.TrimSuffix(line, ":"))
		switch header {
		case "main", "main deck", "deck":
			continue
		case "extra", "extra deck", "side", "side deck", "sideboard":
			deck.ParsedOK = len(deck.Main) > 0
			return deck
		}

		quantity, name := 1, line
		if m := countedQuantity.FindStringSubmatch(line); m != nil {
			quantity, _ = strconv.Atoi(m[1])
			name = strings.TrimSpace(m[2])
		} else if m := bareQuantity.FindStringSubmatch(line); m != nil {
			quantity, _ = strconv.Atoi(m[1])
			name = strings.TrimSpace(m[2])
		} else if m := trailingQuantity.FindStringSubmatch(line); m != nil {
			quantity, _ = strconv.Atoi(m[2])
			name = strings.TrimSpace(m[1])
		}

		if quantity <= 0 {
			deck.Warnings = append(deck.Warnings,
				fmt.Sprintf("Line %d: Invalid quantity in '%s'", i+1, line))
			continue
		}

		deck.Main = append(deck.Main, &ParsedCard{Quantity: quantity, Name: name})
	}

	deck.ParsedOK = len(deck.Main) > 0
	return deck
}
