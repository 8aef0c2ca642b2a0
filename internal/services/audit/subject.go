// Package audit describes the ingest audit trail of the bulk sink.
package audit

import "github.com/vshulcz/elasticreport/pkg/observer"

type Observer = observer.Observer[Event]

type ObserverFunc = observer.ObserverFunc[Event]

type Publisher = observer.Publisher[Event]

type Subject = observer.Subject[Event]

func NewSubject(observers ...Observer) *Subject {
	return observer.NewSubject[Event](observers...)
}
