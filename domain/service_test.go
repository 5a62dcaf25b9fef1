package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceRecord_Address(t *testing.T) {
	tests := []struct {
		name   string
		record ServiceRecord
		want   WorkerAddress
	}{
		{name: "ipv4", record: ServiceRecord{Host: "10.0.0.1", Port: 9000}, want: "10.0.0.1:9000"},
		{name: "hostname", record: ServiceRecord{Host: "localhost", Port: 80}, want: "localhost:80"},
		{name: "ipv6", record: ServiceRecord{Host: "::1", Port: 9001}, want: "[::1]:9001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Address())
		})
	}
}
