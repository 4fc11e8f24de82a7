// Package page assembles full storefront documents around the streamed footer.
package page

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"finitefield.org/hanko-storefront/internal/logging"
)

// EmptyFooter is rendered when the footer cannot be produced.
const EmptyFooter = `<footer class="footer"></footer>`

const dateLayout = "2006-01-02"

// Layout is the view model of a storefront document.
type Layout struct {
	Lang        string
	Title       string
	Description string
	ShopName    string
	Main        templ.Component
	Footer      templ.Component
}

func (l Layout) lang() string {
	if l.Lang == "" {
		return "ja"
	}
	return l.Lang
}

// Boundary renders c and, when c fails, logs the error and writes EmptyFooter
// instead. c must fail before writing any output of its own.
func Boundary(c templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		err := c.Render(ctx, w)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.FromContext(ctx).Error("page: footer failed", zap.Error(err))
		_, werr := io.WriteString(w, EmptyFooter)
		return werr
	})
}
