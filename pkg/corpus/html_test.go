package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const namesPage = `
<html>
<body>
<table><tbody>
<tr>
    <td><b><a>Potato</a></b></td>
    <td><b><a>Batata</a></b></td>
    <td><b><a>Wuuur</a></b></td>
</tr>
<tr>
    <td><a>Unbolded</a></td>
    <td><b><a>&lt;Aed&gt;</a></b></td>
    <td><b><a><i>Fionn</i>ghuala</a></b></td>
    <td><b><a>123</a></b></td>
</tr>
</tbody>
</table>
<b><a>Outside</a></b>
</body>
</html>
`

func TestExtractNames(t *testing.T) {
	sel, err := ParseSelector(DefaultSelector)
	require.NoError(t, err)

	names, err := ExtractNames(strings.NewReader(namesPage), sel, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"potato", "batata", "wuuur", "aed", "fionnghuala"}, names)
}

func TestExtractNamesImplicitTbody(t *testing.T) {
	// The parser inserts <tbody>, which must not break descendant matching.
	page := `<table><tr><td><b><a>Niall</a></b></td></tr></table>`
	sel, err := ParseSelector("table tr a")
	require.NoError(t, err)

	names, err := ExtractNames(strings.NewReader(page), sel, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"niall"}, names)
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("  TR td   A ")
	require.NoError(t, err)
	assert.Equal(t, Selector{"tr", "td", "a"}, sel)
	assert.Equal(t, "tr td a", sel.String())

	_, err = ParseSelector("   ")
	assert.ErrorIs(t, err, ErrEmptySelector)

	_, err = ExtractNames(strings.NewReader(namesPage), nil, false)
	assert.ErrorIs(t, err, ErrEmptySelector)
}

func TestSelectorMatches(t *testing.T) {
	sel := Selector{"tr", "b", "a"}
	assert.True(t, sel.matches("a", []string{"html", "body", "table", "tr", "td", "b"}))
	assert.False(t, sel.matches("a", []string{"html", "body", "b"}))
	assert.False(t, sel.matches("b", []string{"tr"}))
	assert.False(t, sel.matches("a", []string{"b", "tr"}), "ancestors must appear in selector order")
}
