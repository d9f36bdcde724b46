package insights

import "context"

// StubClient is a scripted Client for tests.
type StubClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (s *StubClient) Generate(_ context.Context, prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

func (s *StubClient) Close() error {
	return nil
}
