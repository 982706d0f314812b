package main

import (
	"github.com/turtacn/claims-intake/internal/app"
	grpcserver "github.com/turtacn/claims-intake/internal/interfaces/grpc"
	"github.com/turtacn/claims-intake/internal/interfaces/http/handlers"
)

// Readiness probes are shared by /readyz and the gRPC health service.

func httpCheckers(checkers []app.Checker) []handlers.HealthChecker {
	out := make([]handlers.HealthChecker, 0, len(checkers))
	for _, c := range checkers {
		out = append(out, c)
	}
	return out
}

func grpcCheckers(checkers []app.Checker) []grpcserver.Checker {
	out := make([]grpcserver.Checker, 0, len(checkers))
	for _, c := range checkers {
		out = append(out, c)
	}
	return out
}

//Personal.AI order the ending
