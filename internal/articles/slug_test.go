package articles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/folio-cms/folio/testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   spaces --- and dashes", "multiple-spaces-and-dashes"},
		{"Crème brûlée à la carte", "creme-brulee-a-la-carte"},
		{"100% Go: The API!", "100-go-the-api"},
		{"UPPER lower MiXeD", "upper-lower-mixed"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, Slugify(c.title), "title %q", c.title)
	}
}
