// Package api serves RC5 as an HTTP oracle: list variants, encrypt or decrypt
// one block, and run the known-answer vectors. Byte fields are hex strings.
package api

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rc5-go/pkg/log"
	"rc5-go/pkg/rc5"
	"rc5-go/pkg/vectors"

	"github.com/labstack/echo/v4"
)

type Server struct {
	Api  *echo.Echo
	addr string

	// Vectors supplies the self-test set; vectors.All by default.
	Vectors func() []vectors.Vector
}

type VariantInfo struct {
	ID        string `json:"id"` // path-safe form of Name
	Name      string `json:"name"`
	WordSize  int    `json:"word_size"`
	Rounds    int    `json:"rounds"`
	KeySize   int    `json:"key_size"`
	BlockSize int    `json:"block_size"`
}

type BlockRequest struct {
	Key   string `json:"key"`
	Block string `json:"block"`
}

type BlockResponse struct {
	Variant string `json:"variant"`
	Block   string `json:"block"`
}

type SelfTestResponse struct {
	Passed  int              `json:"passed"`
	Failed  int              `json:"failed"`
	Results []vectors.Result `json:"results"`
}

// ID turns "RC5-32/12/16" into "rc5-32-12-16".
func ID(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "/", "-"))
}

func NewServer(addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{Api: e, addr: addr, Vectors: vectors.All}
	e.Use(requestLogger)
	e.GET("/v1/variants", s.listVariants)
	e.POST("/v1/variants/:name/encrypt", s.encrypt)
	e.POST("/v1/variants/:name/decrypt", s.decrypt)
	e.GET("/v1/selftest", s.selfTest)
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("api listening")
		errCh <- s.Api.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Api.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api: shutdown: %w", err)
		}
		log.Info().Msg("api stopped")
		return nil
	}
}

func (s *Server) listVariants(c echo.Context) error {
	vs := rc5.Variants()
	out := make([]VariantInfo, 0, len(vs))
	for _, v := range vs {
		out = append(out, VariantInfo{
			ID:        ID(v.Name),
			Name:      v.Name,
			WordSize:  v.WordSize,
			Rounds:    v.Rounds,
			KeySize:   v.KeySize,
			BlockSize: v.BlockSize,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) encrypt(c echo.Context) error {
	return s.cipherOp(c, rc5.BlockCipher.Encrypt)
}

func (s *Server) decrypt(c echo.Context) error {
	return s.cipherOp(c, rc5.BlockCipher.Decrypt)
}

func (s *Server) cipherOp(c echo.Context, op func(rc5.BlockCipher, []byte) ([]byte, error)) error {
	v, err := rc5.Lookup(c.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	var req BlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	key, err := hex.DecodeString(req.Key)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "key: "+err.Error())
	}
	block, err := hex.DecodeString(req.Block)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "block: "+err.Error())
	}

	cipher, err := v.New(key)
	if err != nil {
		return errorStatus(err)
	}
	out, err := op(cipher, block)
	if err != nil {
		return errorStatus(err)
	}
	return c.JSON(http.StatusOK, BlockResponse{Variant: v.Name, Block: strings.ToUpper(hex.EncodeToString(out))})
}

func (s *Server) selfTest(c echo.Context) error {
	results := vectors.Run(s.Vectors())
	failed := vectors.Failed(results)
	resp := SelfTestResponse{Passed: len(results) - failed, Failed: failed, Results: results}
	if failed > 0 {
		log.Error().Int("failed", failed).Msg("self-test failed")
		return c.JSON(http.StatusInternalServerError, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func errorStatus(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, rc5.ErrInvalidKeyLength), errors.Is(err, rc5.ErrInvalidBlockLength):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, rc5.ErrUnknownVariant):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// requestLogger records method, route, status and latency. Bodies carry key
// material and are never logged.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		status := c.Response().Status
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Request().Method).
			Str("route", c.Path()).
			Str("variant", c.Param("name")).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("api request")
		return nil
	}
}
