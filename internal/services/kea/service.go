package kea

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitistack/kea-hostimport/pkg/interfaces/keainterface"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// Service wraps the Kea host_cmds and subnet_cmds operations used by the importer.
type Service struct {
	Client keainterface.KeaClient
	// OperationTarget is passed to reservation-add: memory, database or all.
	OperationTarget string
}

func New(client keainterface.KeaClient, operationTarget string) *Service {
	return &Service{Client: client, OperationTarget: operationTarget}
}

// ListSubnetIDs lists the Kea IPv4 subnets and returns the prefix of each subnet id.
func (s *Service) ListSubnetIDs(ctx context.Context) (map[int]string, error) {
	req := keamodels.Request{Command: "subnet4-list", Service: []string{"dhcp4"}, Args: map[string]any{}}
	resp, err := s.Client.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Result != 0 {
		if strings.Contains(strings.ToLower(resp.Text), "not supported") {
			return nil, fmt.Errorf("unsupported kea command subnet4-list: %s", resp.Text)
		}
		return nil, fmt.Errorf("kea subnet4-list failed: %s", resp.Text)
	}
	subnets, ok := resp.Arguments["subnets"].([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected subnet4-list response shape")
	}
	out := make(map[int]string, len(subnets))
	for _, snet := range subnets {
		m, ok := snet.(map[string]any)
		if !ok {
			continue
		}
		prefix, _ := m["subnet"].(string)
		switch idv := m["id"].(type) {
		case float64:
			out[int(idv)] = prefix
		case int:
			out[idv] = prefix
		}
	}
	return out, nil
}

// AddReservation creates a host reservation from a normalized hosts row.
func (s *Service) AddReservation(ctx context.Context, host keamodels.Host) error {
	addReq := keamodels.Request{
		Command: "reservation-add",
		Service: []string{"dhcp4"},
		Args: map[string]any{
			"reservation":      reservationArgs(host),
			"operation-target": s.operationTarget(),
		},
	}
	addResp, addErr := s.Client.Send(ctx, addReq)
	if addErr != nil {
		return addErr
	}
	if addResp.Result != 0 {
		return fmt.Errorf("kea reservation-add failed: %s", addResp.Text)
	}
	return nil
}

func (s *Service) operationTarget() string {
	if s.OperationTarget == "" {
		return "all"
	}
	return s.OperationTarget
}

// reservationArgs maps a hosts row onto the reservation-add argument shape.
// Columns without a reservation-add counterpart (the empty defaults) are left out.
func reservationArgs(host keamodels.Host) map[string]any {
	reservation := map[string]any{
		"subnet-id":  host.Dhcp4SubnetID,
		"hw-address": host.HWAddress(),
	}
	if host.Hostname != "" {
		reservation["hostname"] = host.Hostname
	}
	if ip := host.IPv4(); ip.IsValid() {
		reservation["ip-address"] = ip.String()
	}
	if host.Dhcp4ClientClasses != nil && *host.Dhcp4ClientClasses != "" {
		reservation["client-classes"] = strings.Split(*host.Dhcp4ClientClasses, ",")
	}
	return reservation
}
