// Package submission posts a completed wizard to the prediction service and
// tracks the outcome.
//
// Handler owns the Idle -> Loading -> Success|Failure state machine: it
// re-validates the final step, serialises every field as a form payload and
// maps the service response onto an Outcome. Server-reported errors are shown
// verbatim; anything that keeps a usable response from arriving collapses into
// the generic connection message.
//
// Client is the HTTP Predictor. SharedPredictor and CachingPredictor decorate
// any Predictor to collapse duplicate in-flight submissions and to reuse
// previous answers.
package submission
