// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never start timers or background loops; every operation is
// triggered by a caller.
package services
