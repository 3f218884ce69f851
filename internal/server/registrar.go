package server

import "google.golang.org/grpc"

// Registrar attaches one service (e.g. admin.AdminService) to the ops gRPC
// server. Health and reflection are always registered by ServeGRPC.
type Registrar interface {
	Register(s *grpc.Server)
}
