package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
	"github.com/mycardscz/mycards-server/internal/order"
	"github.com/mycardscz/mycards-server/internal/session"
	"github.com/mycardscz/mycards-server/internal/store"
)

// stubOrderStore records saves and can simulate outages.
type stubOrderStore struct {
	saved     []order.Order
	saveErr   error
	localOnly bool
}

func (s *stubOrderStore) Save(_ context.Context, o order.Order) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, o)
	if s.localOnly {
		return store.ErrSavedLocally
	}
	return nil
}

func (s *stubOrderStore) List(context.Context) ([]order.Order, error) { return s.saved, nil }

func (s *stubOrderStore) Get(_ context.Context, id string) (order.Order, error) {
	for _, o := range s.saved {
		if o.ID == id {
			return o, nil
		}
	}
	return order.Order{}, store.ErrNotFound
}

func (s *stubOrderStore) UpdateStatus(context.Context, string, order.Status) error { return nil }

func (s *stubOrderStore) SoftDelete(context.Context, string, time.Time) error { return nil }

func newFrontRouter(sessions session.Store, orders store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	resolver := deck.NewResolver("https://assets.test/templates")

	r.GET("/games", NewGamesHandler().List)
	r.POST("/decks/resolve", NewDecksHandler(resolver).Resolve)

	sessionHandler := NewSessionHandler(sessions, resolver)
	r.GET("/session/:id", sessionHandler.Get)
	r.PUT("/session/:id", sessionHandler.Put)
	r.DELETE("/session/:id", sessionHandler.Delete)
	r.POST("/session/:id/cards/:cardID", sessionHandler.UpdateCard)

	r.POST("/uploads/compress", NewUploadsHandler().Compress)
	r.POST("/checkout", NewCheckoutHandler(sessions, orders).Checkout)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGamesList(t *testing.T) {
	r := newFrontRouter(session.NewMemoryStore(), &stubOrderStore{})

	w := doJSON(t, r, http.MethodGet, "/games", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Games []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			CardCount int    `json:"cardCount"`
		} `json:"games"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Games) != 5 {
		t.Fatalf("games = %d, want 5", len(resp.Games))
	}
	if resp.Games[0].ID != "marias-single" || resp.Games[0].CardCount != 32 {
		t.Fatalf("first game = %+v", resp.Games[0])
	}
}

func TestDecksResolve(t *testing.T) {
	r := newFrontRouter(session.NewMemoryStore(), &stubOrderStore{})

	w := doJSON(t, r, http.MethodPost, "/decks/resolve", gin.H{
		"game_type":  "poker-standard",
		"card_style": "back-and-face-faces",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Deck []deck.CardConfig `json:"deck"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Deck) != 54 {
		t.Fatalf("deck length = %d, want 54", len(resp.Deck))
	}

	w = doJSON(t, r, http.MethodPost, "/decks/resolve", gin.H{"game_type": "bridge", "card_style": "back-only"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown game status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/decks/resolve", gin.H{"game_type": "canasta", "card_style": "sparkly"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown style status = %d", w.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	sessions := session.NewMemoryStore()
	r := newFrontRouter(sessions, &stubOrderStore{})

	w := doJSON(t, r, http.MethodGet, "/session/s1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing session status = %d", w.Code)
	}

	// Saving a fresh selection resolves the deck server-side.
	w = doJSON(t, r, http.MethodPut, "/session/s1", gin.H{
		"step":      2,
		"gameType":  "marias-single",
		"cardStyle": "back-only",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", w.Code, w.Body.String())
	}
	var state session.State
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Deck) != 32 {
		t.Fatalf("resolved deck = %d cards, want 32", len(state.Deck))
	}
	if state.BackConfig.BorderColor == "" {
		t.Fatal("back config not defaulted")
	}

	w = doJSON(t, r, http.MethodGet, "/session/s1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/session/s1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/session/s1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("session survived delete: %d", w.Code)
	}
}

func seedSession(t *testing.T, sessions session.Store, id string, game catalog.GameType, style catalog.CardStyle) session.State {
	t.Helper()
	resolver := deck.NewResolver("")
	state := session.State{
		Step:       3,
		GameType:   game,
		CardStyle:  style,
		Deck:       resolver.Resolve(game, style),
		BackConfig: deck.NewBackConfig(),
	}
	if err := sessions.Save(context.Background(), id, state); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return state
}

func TestUpdateCard_EditAndClamp(t *testing.T) {
	sessions := session.NewMemoryStore()
	r := newFrontRouter(sessions, &stubOrderStore{})
	state := seedSession(t, sessions, "s2", catalog.PokerStandard, catalog.CustomGame)

	cardID := state.Deck[0].ID
	w := doJSON(t, r, http.MethodPost, "/session/s2/cards/"+cardID, gin.H{
		"customImage": "data:image/png;base64,AAAA",
		"customText":  "Tohle je strašně dlouhý popisek karty",
		"imageScale":  9.0,
		"imageX":      -120,
		"imageY":      77,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Card deck.CardConfig `json:"card"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Card.ImageScale != deck.MaxImageScale {
		t.Fatalf("scale = %v, want clamped to %v", resp.Card.ImageScale, deck.MaxImageScale)
	}
	if resp.Card.ImageX != deck.MinImageShift || resp.Card.ImageY != deck.MaxImageShift {
		t.Fatalf("offsets = %d/%d, want clamped", resp.Card.ImageX, resp.Card.ImageY)
	}
	if got := len([]rune(resp.Card.CustomText)); got != deck.MaxCaptionLen {
		t.Fatalf("caption length = %d, want %d", got, deck.MaxCaptionLen)
	}
}

func TestUpdateCard_LockedRejected(t *testing.T) {
	sessions := session.NewMemoryStore()
	r := newFrontRouter(sessions, &stubOrderStore{})
	state := seedSession(t, sessions, "s3", catalog.MariasDouble, catalog.BackOnly)

	if !state.Deck[0].IsLocked {
		t.Fatal("fixture card should be locked")
	}
	w := doJSON(t, r, http.MethodPost, "/session/s3/cards/"+state.Deck[0].ID, gin.H{"customText": "hi"})
	if w.Code != http.StatusConflict {
		t.Fatalf("locked edit status = %d, want 409", w.Code)
	}
}

func TestUpdateCard_ApplyToSuit(t *testing.T) {
	sessions := session.NewMemoryStore()
	r := newFrontRouter(sessions, &stubOrderStore{})
	state := seedSession(t, sessions, "s4", catalog.PokerStandard, catalog.CustomGame)

	var heartsCard deck.CardConfig
	for _, card := range state.Deck {
		if card.Suit == catalog.Hearts && card.Rank == catalog.Five {
			heartsCard = card
			break
		}
	}

	w := doJSON(t, r, http.MethodPost, "/session/s4/cards/"+heartsCard.ID, gin.H{
		"customImage": "upload-7",
		"applyTo":     "suit",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	got, err := sessions.Load(context.Background(), "s4")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, card := range got.Deck {
		wantImage := ""
		if card.Suit == catalog.Hearts && card.Rank != catalog.Joker {
			wantImage = "upload-7"
		}
		if card.CustomImage != wantImage {
			t.Fatalf("card %s image = %q, want %q", card.ID, card.CustomImage, wantImage)
		}
	}
}

func TestUpdateCard_ApplyToNeverTouchesJokers(t *testing.T) {
	sessions := session.NewMemoryStore()
	r := newFrontRouter(sessions, &stubOrderStore{})
	state := seedSession(t, sessions, "s5", catalog.PokerStandard, catalog.CustomGame)

	var kingHearts deck.CardConfig
	for _, card := range state.Deck {
		if card.Suit == catalog.Hearts && card.Rank == catalog.King {
			kingHearts = card
			break
		}
	}

	// The red joker lives on Hearts; a suit-wide edit must still skip it.
	w := doJSON(t, r, http.MethodPost, "/session/s5/cards/"+kingHearts.ID, gin.H{
		"customText": "Děda",
		"applyTo":    "suit",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got, _ := sessions.Load(context.Background(), "s5")
	for _, card := range got.Deck {
		if card.Rank == catalog.Joker && card.CustomText != "" {
			t.Fatalf("joker %s picked up a propagated caption", card.ID)
		}
	}

	w = doJSON(t, r, http.MethodPost, "/session/s5/cards/"+kingHearts.ID, gin.H{
		"customText": "x",
		"applyTo":    "sideways",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad applyTo status = %d", w.Code)
	}
}

func TestCheckout(t *testing.T) {
	sessions := session.NewMemoryStore()
	orders := &stubOrderStore{}
	r := newFrontRouter(sessions, orders)
	seedSession(t, sessions, "s6", catalog.MariasSingle, catalog.BackOnly)

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{
		"sessionId": "s6",
		"customer": gin.H{
			"firstName":      "Jana",
			"lastName":       "Novotná",
			"email":          "jana@example.cz",
			"deliveryMethod": "zasilkovna",
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		OrderID      string `json:"orderId"`
		TotalPrice   int    `json:"totalPrice"`
		SavedLocally bool   `json:"savedLocally"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalPrice != 578 || resp.SavedLocally {
		t.Fatalf("resp = %+v", resp)
	}
	if len(orders.saved) != 1 {
		t.Fatalf("orders saved = %d", len(orders.saved))
	}

	// Checkout clears the session.
	if _, err := sessions.Load(context.Background(), "s6"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("session survived checkout: %v", err)
	}
}

func TestCheckout_SaveFailureKeepsSession(t *testing.T) {
	sessions := session.NewMemoryStore()
	orders := &stubOrderStore{saveErr: errors.New("database down")}
	r := newFrontRouter(sessions, orders)
	seedSession(t, sessions, "s7", catalog.MariasSingle, catalog.BackOnly)

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{
		"sessionId": "s7",
		"customer":  gin.H{"lastName": "Novotná", "email": "jana@example.cz"},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if _, err := sessions.Load(context.Background(), "s7"); err != nil {
		t.Fatalf("session lost on failed checkout: %v", err)
	}
}

func TestCheckout_LocalFallbackWarns(t *testing.T) {
	sessions := session.NewMemoryStore()
	orders := &stubOrderStore{localOnly: true}
	r := newFrontRouter(sessions, orders)
	seedSession(t, sessions, "s8", catalog.Canasta, catalog.CustomGame)

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{
		"sessionId": "s8",
		"customer":  gin.H{"lastName": "Malá", "email": "eva@example.cz", "deliveryMethod": "ppl"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		SavedLocally bool `json:"savedLocally"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.SavedLocally {
		t.Fatal("local fallback not surfaced")
	}
	// The order is safe, so the session still clears.
	if _, err := sessions.Load(context.Background(), "s8"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("session survived fallback checkout: %v", err)
	}
}

func TestUploadsCompress_Validation(t *testing.T) {
	r := newFrontRouter(session.NewMemoryStore(), &stubOrderStore{})

	w := doJSON(t, r, http.MethodPost, "/uploads/compress", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty image status = %d", w.Code)
	}

	// A non-image passes through unchanged.
	w = doJSON(t, r, http.MethodPost, "/uploads/compress", gin.H{"image": "https://example.com/cat.png"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Image != "https://example.com/cat.png" {
		t.Fatalf("image = %q", resp.Image)
	}
}
