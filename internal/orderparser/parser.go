// Package orderparser turns loosely formatted order lines into orders.
//
// Three shapes are recognised, tried in this order:
//
//	135 Sweater XL                      spaced triple
//	145SweaterXL200TshirtM              one or more fused triples
//	... 135 Sweater do tamanho XL ...   narrative, every occurrence
//
// Lines matching none of them produce no orders and are not an error.
package orderparser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockflow/internal/domain"
)

const word = `[\p{L}\p{N}_]+`

var (
	spacedTriple  = regexp.MustCompile(`^(\d+)\s+(` + word + `)\s+(` + word + `)$`)
	fusedLine     = regexp.MustCompile(`^\d[\p{L}\p{N}_]{2,}$`)
	fusedTriple   = regexp.MustCompile(`(\d+)(\p{Lu}\p{Ll}+)(\p{Lu}+)`)
	narrativeForm = regexp.MustCompile(`(\d+)\s+(` + word + `)\s+do tamanho\s+(` + word + `)`)
)

// Day is one input line; the simulator consumes one Day per simulated day.
type Day struct {
	Index  int            `json:"day"`
	Text   string         `json:"text"`
	Orders []domain.Order `json:"orders"`
}

// Parse extracts every order in a single line.
func Parse(line string) []domain.Order {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if m := spacedTriple.FindStringSubmatch(line); m != nil {
		if o, ok := newOrder(m[1], m[2], m[3]); ok {
			return []domain.Order{o}
		}
		return nil
	}

	// A fused-shaped line (no whitespace) is never retried as narrative text.
	if fusedLine.MatchString(line) {
		return collect(fusedTriple.FindAllStringSubmatch(line, -1))
	}

	return collect(narrativeForm.FindAllStringSubmatch(line, -1))
}

// ParseReader reads r line by line and returns one Day per line, numbered from 1.
func ParseReader(r io.Reader) ([]Day, error) {
	var days []Day
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		days = append(days, Day{
			Index:  len(days) + 1,
			Text:   text,
			Orders: Parse(text),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read order lines: %w", err)
	}
	return days, nil
}

// ParseLines is ParseReader over an in-memory slice of lines.
func ParseLines(lines []string) []Day {
	days := make([]Day, 0, len(lines))
	for i, l := range lines {
		text := strings.TrimSpace(l)
		days = append(days, Day{Index: i + 1, Text: text, Orders: Parse(text)})
	}
	return days
}

// Orders flattens the orders of every day, in order.
func Orders(days []Day) []domain.Order {
	var out []domain.Order
	for _, d := range days {
		out = append(out, d.Orders...)
	}
	return out
}

func collect(matches [][]string) []domain.Order {
	var orders []domain.Order
	for _, m := range matches {
		if o, ok := newOrder(m[1], m[2], m[3]); ok {
			orders = append(orders, o)
		}
	}
	return orders
}

func newOrder(quantity, clothingType, size string) (domain.Order, bool) {
	q, err := strconv.Atoi(quantity)
	if err != nil || q <= 0 {
		return domain.Order{}, false
	}
	return domain.Order{
		Quantity:     q,
		ClothingType: clothingType,
		Size:         strings.ToUpper(size),
	}, true
}
