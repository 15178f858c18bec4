package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"diabeater-backend/internal/apperror"
)

func TestSimulateAcceptsOnlySuccessfulJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"transactionId":"txn_abc","paidAt":"2025-01-01T00:00:00Z","paymentMethod":"card"}`))
	}))
	defer srv.Close()

	client := NewHTTPPaymentClient(srv.URL, zap.NewNop())
	res, err := client.Simulate(context.Background(), PaymentRequest{UserID: "7", Plan: "Premium"})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.TransactionID != "txn_abc" {
		t.Errorf("transactionID = %q", res.TransactionID)
	}
}

func TestSimulateRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPPaymentClient(srv.URL, zap.NewNop())
	_, err := client.Simulate(context.Background(), PaymentRequest{})
	if !errors.Is(err, apperror.ErrPayment) {
		t.Fatalf("err = %v, want ErrPayment", err)
	}
}

func TestSimulateRejectsNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	client := NewHTTPPaymentClient(srv.URL, zap.NewNop())
	_, err := client.Simulate(context.Background(), PaymentRequest{})
	if !errors.Is(err, apperror.ErrPayment) {
		t.Fatalf("err = %v, want ErrPayment", err)
	}
}

func TestSimulateSurfacesDeclineMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"Simulated payment failure"}`))
	}))
	defer srv.Close()

	client := NewHTTPPaymentClient(srv.URL, zap.NewNop())
	_, err := client.Simulate(context.Background(), PaymentRequest{SimulateFail: true})
	if !errors.Is(err, apperror.ErrPayment) {
		t.Fatalf("err = %v, want ErrPayment", err)
	}
	if err.Error() != "Simulated payment failure" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSimulateUnreachableEndpoint(t *testing.T) {
	client := NewHTTPPaymentClient("http://127.0.0.1:1", zap.NewNop())
	_, err := client.Simulate(context.Background(), PaymentRequest{})
	if !errors.Is(err, apperror.ErrPayment) {
		t.Fatalf("err = %v, want ErrPayment", err)
	}
}
