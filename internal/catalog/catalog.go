// Package catalog maps numeric card ids to card names.
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Card is one catalog entry.
type Card struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Catalog is an in-memory id to name table. It is read-only after loading.
type Catalog struct {
	names map[int]string
}

// New builds a catalog from cards. Later duplicates win.
func New(cards []Card) *Catalog {
	c := &Catalog{names: make(map[int]string, len(cards))}
	for _, card := range cards {
		c.names[card.ID] = card.Name
	}
	return c
}

// LoadCSV reads an "id,name" catalog. The first line is a header and is
// skipped. Each line is split on its first comma, so names may contain commas;
// a name wrapped in double quotes is unquoted. Lines with a missing or
// non-numeric id are skipped.
func LoadCSV(r io.Reader) (*Catalog, error) {
	c := &Catalog{names: make(map[int]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}

		idText, name, found := strings.Cut(scanner.Text(), ",")
		if !found {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(idText))
		if err != nil {
			continue
		}
		c.names[id] = unquote(strings.TrimSpace(name))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read card catalog: %w", err)
	}
	return c, nil
}

// LoadCSVFile opens path and reads it with LoadCSV.
func LoadCSVFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card catalog: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// CardName implements deckimport.Resolver.
func (c *Catalog) CardName(_ context.Context, id int) (string, bool, error) {
	name, ok := c.names[id]
	return name, ok, nil
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Cards returns every entry ordered by id.
func (c *Catalog) Cards() []Card {
	cards := make([]Card, 0, len(c.names))
	for id, name := range c.names {
		cards = append(cards, Card{ID: id, Name: name})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}
