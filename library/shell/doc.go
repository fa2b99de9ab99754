// Package shell holds the infrastructure around the circulation desk: the transaction journal,
// the mapping between domain events and storable events, retry with exponential backoff,
// and the observability helpers shared by the wrappers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' or 'adapters' layer.
package shell
