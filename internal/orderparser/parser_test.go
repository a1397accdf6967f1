package orderparser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockflow/internal/domain"
)

func TestParse_EquivalentFormsYieldSameOrder(t *testing.T) {
	want := []domain.Order{{Quantity: 135, ClothingType: "Sweater", Size: "XL"}}

	tests := []struct {
		name string
		line string
	}{
		{"spaced triple", "135 Sweater XL"},
		{"spaced triple lower-case size", "135 Sweater xl"},
		{"fused triple", "135SweaterXL"},
		{"narrative", "135 Sweater do tamanho XL"},
		{"narrative inside prose", "Bom dia, queria 135 Sweater do tamanho xl por favor"},
		{"surrounding whitespace", "   135 Sweater XL  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, Parse(tt.line))
		})
	}
}

func TestParse_FusedLineWithTwoTriples_PreservesOrder(t *testing.T) {
	// GIVEN a line with two concatenated fused triples
	got := Parse("145SweaterXL200TshirtM")

	// THEN both records are extracted left to right
	assert.Equal(t, []domain.Order{
		{Quantity: 145, ClothingType: "Sweater", Size: "XL"},
		{Quantity: 200, ClothingType: "Tshirt", Size: "M"},
	}, got)
}

func TestParse_NarrativeWithSeveralOccurrences(t *testing.T) {
	line := "Encomenda: 10 Tshirt do tamanho S e 20 Pants do tamanho L"

	got := Parse(line)

	require.Len(t, got, 2)
	assert.Equal(t, domain.Order{Quantity: 10, ClothingType: "Tshirt", Size: "S"}, got[0])
	assert.Equal(t, domain.Order{Quantity: 20, ClothingType: "Pants", Size: "L"}, got[1])
}

func TestParse_UnicodeClothingType(t *testing.T) {
	got := Parse("150 Calções XS")

	assert.Equal(t, []domain.Order{{Quantity: 150, ClothingType: "Calções", Size: "XS"}}, got)
}

func TestParse_UnrecognisedLines(t *testing.T) {
	for _, line := range []string{
		"",
		"hello world",
		"Sweater XL 135",
		"12345",
		"145sweaterxl",
		"0 Tshirt M",
		"99999999999999999999999 Tshirt M",
	} {
		assert.Empty(t, Parse(line), "line %q", line)
	}
}

func TestParse_FusedShapedLineDoesNotFallThroughToNarrative(t *testing.T) {
	// a whitespace-free line that does not contain a fused triple stays empty
	assert.Empty(t, Parse("145do_tamanho"))
}

func TestParse_IsPure(t *testing.T) {
	line := "145SweaterXL200TshirtM"
	assert.Equal(t, Parse(line), Parse(line))
}

func TestParseReader_MalformedLineDoesNotHaltLaterLines(t *testing.T) {
	// GIVEN an input whose second line is garbage
	input := strings.Join([]string{
		"10 Tshirt M",
		"??? not an order ???",
		"",
		"20PantsL",
	}, "\n")

	// WHEN it is parsed
	days, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)

	// THEN every line is a day and later lines still produce orders
	require.Len(t, days, 4)
	assert.Equal(t, 1, days[0].Index)
	assert.Len(t, days[0].Orders, 1)
	assert.Empty(t, days[1].Orders)
	assert.Empty(t, days[2].Orders)
	assert.Equal(t, 4, days[3].Index)
	assert.Equal(t, []domain.Order{{Quantity: 20, ClothingType: "Pants", Size: "L"}}, days[3].Orders)
}

func TestParseLines_NumbersDaysFromOne(t *testing.T) {
	days := ParseLines([]string{"1 Tshirt M", "2 Tshirt M"})

	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Index)
	assert.Equal(t, 2, days[1].Index)
	assert.Len(t, Orders(days), 2)
}

func TestParseFiles_ConcatenatesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "encomenda1.txt")
	second := filepath.Join(dir, "encomenda2.txt")
	require.NoError(t, os.WriteFile(first, []byte("1 Tshirt M\n2 Tshirt M\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("3SweaterXL\n"), 0o644))

	days, err := ParseFiles(context.Background(), []string{first, second}, 4)
	require.NoError(t, err)

	require.Len(t, days, 3)
	for i, d := range days {
		assert.Equal(t, i+1, d.Index)
	}
	assert.Equal(t, 3, days[2].Orders[0].Quantity)
	assert.Equal(t, "Sweater", days[2].Orders[0].ClothingType)
}

func TestParseFiles_MissingFile(t *testing.T) {
	_, err := ParseFiles(context.Background(), []string{filepath.Join(t.TempDir(), "missing.txt")}, 1)

	assert.Error(t, err)
}
