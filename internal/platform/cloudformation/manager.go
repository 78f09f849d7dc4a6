package cloudformation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"

	"github.com/quorumlabs/nodeops/internal/errdefs"
)

// API is the subset of the CloudFormation service client the manager uses.
type API interface {
	CreateStack(ctx context.Context, in *cloudformation.CreateStackInput, opts ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	DeleteStack(ctx context.Context, in *cloudformation.DeleteStackInput, opts ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, opts ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// StackOptions describes a stack creation request.
type StackOptions struct {
	Name         string
	TemplateBody string
	Capabilities []types.Capability
	OnFailure    types.OnFailure
	Tags         map[string]string
	Parameters   map[string]string
}

// Stack is the observed state of a stack.
type Stack struct {
	Name    string
	ID      string
	Status  types.StackStatus
	Outputs map[string]string
}

// Manager drives stack create/poll/delete against the CloudFormation API.
type Manager struct {
	api API
}

// NewManager creates a manager using the ambient AWS configuration.
func NewManager(ctx context.Context, region string) (*Manager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Manager{api: cloudformation.NewFromConfig(cfg)}, nil
}

// NewManagerWithAPI creates a manager over an existing API implementation.
func NewManagerWithAPI(api API) *Manager {
	return &Manager{api: api}
}

// Create submits a stack creation request. Submission is asynchronous; call
// Poll to wait for the stack to settle. A rejected request surfaces as a
// ProviderError with the service's message intact.
func (m *Manager) Create(ctx context.Context, opts StackOptions) (*Stack, error) {
	in := &cloudformation.CreateStackInput{
		StackName:    aws.String(opts.Name),
		TemplateBody: aws.String(opts.TemplateBody),
		Capabilities: opts.Capabilities,
	}
	if opts.OnFailure != "" {
		in.OnFailure = opts.OnFailure
	}
	for k, v := range opts.Tags {
		in.Tags = append(in.Tags, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	for k, v := range opts.Parameters {
		in.Parameters = append(in.Parameters, types.Parameter{
			ParameterKey:   aws.String(k),
			ParameterValue: aws.String(v),
		})
	}

	log.Printf("creating stack %s", opts.Name)
	out, err := m.api.CreateStack(ctx, in)
	if err != nil {
		return nil, &errdefs.ProviderError{Op: fmt.Sprintf("create stack %s", opts.Name), Err: err}
	}

	s := &Stack{Name: opts.Name, Status: types.StackStatusCreateInProgress}
	if out.StackId != nil {
		s.ID = *out.StackId
	}
	return s, nil
}

// Delete requests stack deletion. Deleting a stack that does not exist is a
// no-op, so teardown can be re-run from any point.
func (m *Manager) Delete(ctx context.Context, name string) error {
	log.Printf("deleting stack %s", name)
	_, err := m.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{StackName: aws.String(name)})
	if err != nil {
		if isStackNotFound(err) {
			return nil
		}
		return &errdefs.ProviderError{Op: fmt.Sprintf("delete stack %s", name), Err: err}
	}
	return nil
}

// Describe returns the current state of a named stack. A missing stack
// returns ErrNotFound.
func (m *Manager) Describe(ctx context.Context, name string) (*Stack, error) {
	out, err := m.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(name)})
	if err != nil {
		if isStackNotFound(err) {
			return nil, errdefs.NotFoundf("stack %s", name)
		}
		return nil, fmt.Errorf("failed to describe stack %s: %w", name, err)
	}
	if len(out.Stacks) == 0 {
		return nil, errdefs.NotFoundf("stack %s", name)
	}

	raw := out.Stacks[0]
	s := &Stack{Name: name, Status: raw.StackStatus}
	if raw.StackId != nil {
		s.ID = *raw.StackId
	}
	for _, o := range raw.Outputs {
		if o.OutputKey == nil || o.OutputValue == nil {
			continue
		}
		if s.Outputs == nil {
			s.Outputs = map[string]string{}
		}
		s.Outputs[*o.OutputKey] = *o.OutputValue
	}
	return s, nil
}

// Poll watches a stack until it reaches the target status. A stack that
// describes as missing counts as success when the target is DELETE_COMPLETE;
// for any other target it is a retriable observation, since a freshly
// submitted stack can briefly describe as missing. Query errors are likewise
// retried until the deadline. Timing out returns a TimeoutError carrying the
// last observed status, so the caller knows whether the stack was still
// moving or stuck.
func (m *Manager) Poll(ctx context.Context, name string, target types.StackStatus, timeout, interval time.Duration) (*Stack, error) {
	deadline := time.Now().Add(timeout)
	lastStatus := "unknown"

	for {
		s, err := m.Describe(ctx, name)
		switch {
		case err == nil:
			lastStatus = string(s.Status)
			if s.Status == target {
				log.Printf("stack %s reached %s", name, target)
				return s, nil
			}
			if isTerminalFailure(s.Status, target) {
				return nil, &errdefs.ProviderError{
					Op:  fmt.Sprintf("poll stack %s", name),
					Err: fmt.Errorf("stack entered terminal status %s while waiting for %s", s.Status, target),
				}
			}
		case errors.Is(err, errdefs.ErrNotFound):
			if target == types.StackStatusDeleteComplete {
				return &Stack{Name: name, Status: types.StackStatusDeleteComplete}, nil
			}
			lastStatus = "not found"
		default:
			// transient describe failure, keep polling until the deadline
			log.Printf("describe stack %s failed (retrying): %v", name, err)
		}

		if time.Now().After(deadline) {
			return nil, &errdefs.TimeoutError{
				Name:       fmt.Sprintf("stack %s -> %s", name, target),
				LastStatus: lastStatus,
				Elapsed:    timeout,
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// isTerminalFailure reports whether the stack has settled in a status it will
// never leave on its own, other than the target.
func isTerminalFailure(status, target types.StackStatus) bool {
	switch status {
	case types.StackStatusCreateFailed,
		types.StackStatusRollbackComplete,
		types.StackStatusRollbackFailed,
		types.StackStatusDeleteFailed:
		return status != target
	case types.StackStatusDeleteComplete:
		// a deleted stack will never reach a create target
		return target != types.StackStatusDeleteComplete
	}
	return false
}

// isStackNotFound matches the ValidationError the service returns for
// operations on nonexistent stacks.
func isStackNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" &&
			strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return false
}
