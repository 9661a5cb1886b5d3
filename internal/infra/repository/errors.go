package repository

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
)

var (
	ErrNotFound = httperr.NotFound("No document found with that Id")
	ErrNotOwned = httperr.NotFound("Document not found or does not belong to your account")
)

// translate maps driver and gorm failures onto operational errors.
// Anything unrecognised is returned as is and ends up as a 500.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return httperr.Wrap(http.StatusConflict, duplicateMessage(pgErr), err)
	case "42703":
		return httperr.Wrap(http.StatusBadRequest, "Unknown field in query", err)
	case "22P02", "22007", "22008", "22003":
		return httperr.Wrap(http.StatusBadRequest, "Invalid value in query", err)
	case "23502", "23514":
		return httperr.Wrap(http.StatusBadRequest, "Invalid input data", err)
	}
	return err
}

func duplicateMessage(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return fmt.Sprintf("Duplicate field value (%s). Please use another value!", pgErr.ConstraintName)
	}
	return "Duplicate field value. Please use another value!"
}
