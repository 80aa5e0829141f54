package middleware

import (
	"context"
	"net/http"

	"github.com/calder-io/dispatch/pkg/scontext"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TransactionFactory begins database transactions for the Transaction middleware.
// Implementations typically wrap a *gorm.DB; tests substitute fakes.
type TransactionFactory interface {
	BeginTransaction(ctx context.Context) (scontext.DatabaseTransaction, error)
}

// GormTransactionWrapper wraps a *gorm.DB instance to implement the
// scontext.DatabaseTransaction interface. GORM's methods like Commit return
// *gorm.DB for chaining, which doesn't match the interface's plain error returns.
type GormTransactionWrapper struct {
	DB *gorm.DB
}

// NewGormTransactionWrapper creates a new wrapper around a GORM transaction.
func NewGormTransactionWrapper(tx *gorm.DB) *GormTransactionWrapper {
	return &GormTransactionWrapper{DB: tx}
}

// Commit implements the DatabaseTransaction interface.
func (w *GormTransactionWrapper) Commit() error {
	return w.DB.Commit().Error
}

// Rollback implements the DatabaseTransaction interface.
func (w *GormTransactionWrapper) Rollback() error {
	return w.DB.Rollback().Error
}

// SavePoint implements the DatabaseTransaction interface.
func (w *GormTransactionWrapper) SavePoint(name string) error {
	return w.DB.SavePoint(name).Error
}

// RollbackTo implements the DatabaseTransaction interface.
func (w *GormTransactionWrapper) RollbackTo(name string) error {
	return w.DB.RollbackTo(name).Error
}

// GetDB returns the underlying *gorm.DB instance.
func (w *GormTransactionWrapper) GetDB() *gorm.DB {
	return w.DB
}

var _ scontext.DatabaseTransaction = (*GormTransactionWrapper)(nil)

// GormTransactionFactory begins gorm transactions from a root *gorm.DB.
type GormTransactionFactory struct {
	DB *gorm.DB
}

// BeginTransaction implements TransactionFactory.
func (f *GormTransactionFactory) BeginTransaction(ctx context.Context) (scontext.DatabaseTransaction, error) {
	tx := f.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return NewGormTransactionWrapper(tx), nil
}

// Transaction creates a middleware that wraps each request in a database
// transaction. The transaction is stored in the request context for handlers
// to use, then committed when the response status indicates success (2xx/3xx)
// and rolled back otherwise. T is the principal's external-ID type.
func Transaction[T comparable](factory TransactionFactory, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := factory.BeginTransaction(r.Context())
			if err != nil {
				logger.Error("Failed to begin transaction",
					zap.Error(err),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := scontext.WithTransaction[T](r.Context(), tx)
			r = r.WithContext(ctx)

			captureWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(captureWriter, r)

			success := captureWriter.statusCode >= 200 && captureWriter.statusCode < 400
			if success {
				if err := tx.Commit(); err != nil {
					// The response has already been written at this point.
					logger.Error("Failed to commit transaction",
						zap.Error(err),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
					)
				}
				return
			}
			if err := tx.Rollback(); err != nil {
				logger.Error("Failed to rollback transaction",
					zap.Error(err),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
			}
		})
	}
}
