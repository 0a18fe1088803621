package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dejobratic/restoadmin/internal/orders/app"
	"github.com/dejobratic/restoadmin/internal/orders/app/queries"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/web"
)

// boardClockTick re-renders the board so "today" rolls over at midnight
// even when no refresh changes the snapshot.
const boardClockTick = time.Minute

// UI serves the live orders board.
type UI struct {
	service   *app.Service
	logger    *slog.Logger
	metrics   *Metrics
	fragments *template.Template
}

func NewUI(service *app.Service, logger *slog.Logger, metrics *Metrics) (*UI, error) {
	tmpl, err := web.Templates(template.FuncMap{"money": domain.FormatSum})
	if err != nil {
		return nil, fmt.Errorf("parse board templates: %w", err)
	}
	return &UI{service: service, logger: logger, metrics: metrics, fragments: tmpl}, nil
}

func (u *UI) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ui/orders", u.Index)
	mux.HandleFunc("GET /ui/orders/feed", u.Feed)
}

type boardSignals struct {
	Status string `json:"status"`
	Date   string `json:"date"`
}

func (u *UI) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, web.MustFS(), "orders.html")
}

// Feed streams the filtered board and patches it after every snapshot
// change until the client goes away.
func (u *UI) Feed(w http.ResponseWriter, r *http.Request) {
	signals := &boardSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = u.patchError(sse, "Noto'g'ri so'rov")
		return
	}

	sel, err := queries.ParseSelection(signals.Status, signals.Date)
	if err != nil {
		sse := datastar.NewSSE(w, r)
		_ = u.patchError(sse, err.Error())
		return
	}

	updates, cancel := u.service.Subscribe()
	defer cancel()

	ctx := r.Context()
	u.metrics.boardConnected(ctx)
	defer u.metrics.boardDisconnected(ctx)

	sse := datastar.NewSSE(w, r)
	ticker := time.NewTicker(boardClockTick)
	defer ticker.Stop()

	for {
		if err := u.patchBoard(sse, r, sel); err != nil {
			if ctx.Err() == nil {
				u.logger.WarnContext(ctx, "orders board stream closed", "error", err)
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-updates:
		case <-ticker.C:
		}
	}
}

func (u *UI) patchBoard(sse *datastar.ServerSentEventGenerator, r *http.Request, sel domain.Selection) error {
	visible, err := u.service.Visible(r.Context(), sel, u.service.Now())
	if err != nil {
		return u.patchError(sse, "Xatolik yuz berdi")
	}

	var buf bytes.Buffer
	if err := u.fragments.ExecuteTemplate(&buf, "board", visible); err != nil {
		return fmt.Errorf("render board: %w", err)
	}
	if err := sse.PatchElements(buf.String()); err != nil {
		return err
	}
	return u.patchError(sse, "")
}

func (u *UI) patchError(sse *datastar.ServerSentEventGenerator, message string) error {
	var buf bytes.Buffer
	if err := u.fragments.ExecuteTemplate(&buf, "error", message); err != nil {
		return errors.Join(errors.New("render error fragment"), err)
	}
	return sse.PatchElements(buf.String())
}
