package importer

import (
	"fmt"
	"io"
)

// Service parses uploaded spending files into transaction params.
type Service struct {
	parser *Parser
}

func NewService() *Service {
	return &Service{parser: NewParser()}
}

func (s *Service) Import(r io.Reader) (*Result, error) {
	res, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}

	return res, nil
}
