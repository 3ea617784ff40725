package providers

import (
	"context"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
)

// Operation names reported to a RequestObserver.
const (
	OperationListRecords  = "list_records"
	OperationCreateRecord = "create_record"
)

// RequestObserver is notified after every provider call with the operation
// name and the call's error, if any.
type RequestObserver func(operation string, err error)

// observedProvider reports every call of the wrapped provider.
type observedProvider struct {
	domain.Provider
	observe RequestObserver
}

// Observe wraps p so that obs sees every ListRecords and CreateRecord call.
// A nil obs returns p unchanged.
func Observe(p domain.Provider, obs RequestObserver) domain.Provider {
	if obs == nil || p == nil {
		return p
	}
	return &observedProvider{Provider: p, observe: obs}
}

// ObserveFactory wraps every provider built by f with Observe.
func ObserveFactory(f Factory, obs RequestObserver) Factory {
	return func(creds domain.ZoneCredentials) (domain.Provider, error) {
		p, err := f(creds)
		if err != nil {
			return nil, err
		}
		return Observe(p, obs), nil
	}
}

func (o *observedProvider) ListRecords(ctx context.Context, query domain.RecordQuery) ([]domain.Record, error) {
	records, err := o.Provider.ListRecords(ctx, query)
	o.observe(OperationListRecords, err)
	return records, err
}

func (o *observedProvider) CreateRecord(ctx context.Context, opts domain.CreateRecordOpts) (*domain.Record, error) {
	rec, err := o.Provider.CreateRecord(ctx, opts)
	o.observe(OperationCreateRecord, err)
	return rec, err
}
