// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package goplugin exposes plugin.Hooks over hashicorp/go-plugin so the host
// can drive the hooks across a process boundary.
package goplugin

import (
	"context"
	"encoding/json"
	"net/rpc"
	"os/exec"
	"slices"

	"github.com/hashicorp/go-plugin"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	aqsplugin "github.com/odahub/renku-aqs/pkg/plugin"
)

const (
	protocolVersion = 1
	magicCookieKey  = "RENKU_AQS_PLUGIN"
	magicCookieVal  = "cmVua3UtYXFzLWhvb2tz" // "renku-aqs-hooks" base64

	// HooksPlugin is the name the hooks are dispensed under.
	HooksPlugin = "hooks"
)

func HandshakeConfig() plugin.HandshakeConfig {
	return plugin.HandshakeConfig{
		ProtocolVersion:  protocolVersion,
		MagicCookieKey:   magicCookieKey,
		MagicCookieValue: magicCookieVal,
	}
}

// PluginMap serves impl. Hosts pass a nil impl.
func PluginMap(impl aqsplugin.Hooks) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		HooksPlugin: &HooksRPCPlugin{Impl: impl},
	}
}

// Serve blocks serving impl to the host that started this process.
func Serve(impl aqsplugin.Hooks) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: HandshakeConfig(),
		Plugins:         PluginMap(impl),
	})
}

func ClientConfig(binaryPath string, args ...string) *plugin.ClientConfig {
	return &plugin.ClientConfig{
		HandshakeConfig:  HandshakeConfig(),
		Plugins:          PluginMap(nil),
		Cmd:              exec.Command(binaryPath, slices.Clone(args)...),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
	}
}

// Connect starts the plugin binary and returns its hooks. The returned
// function kills the plugin process.
func Connect(cfg *plugin.ClientConfig) (aqsplugin.Hooks, func(), error) {
	client := plugin.NewClient(cfg)
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, aqserr.Wrap(err, aqserr.CodePluginRuntimeStartFailure, "starting hooks plugin")
	}
	raw, err := rpcClient.Dispense(HooksPlugin)
	if err != nil {
		client.Kill()
		return nil, nil, aqserr.Wrap(err, aqserr.CodePluginRuntimeStartFailure, "dispensing hooks plugin")
	}
	return raw.(aqsplugin.Hooks), client.Kill, nil
}

// HooksRPCPlugin adapts plugin.Hooks to net/rpc.
type HooksRPCPlugin struct {
	Impl aqsplugin.Hooks
}

func (p *HooksRPCPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &RPCServer{impl: p.Impl}, nil
}

func (p *HooksRPCPlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &RPCClient{client: c}, nil
}

// Payloads cross the wire as JSON so annotation bodies keep their shape.
type preRunReply struct{}

type processReply struct {
	Annotations []aqsplugin.Annotation `json:"annotations"`
	Errors      []string               `json:"errors,omitempty"`
}

// RPCServer runs on the plugin side.
type RPCServer struct {
	impl aqsplugin.Hooks
}

func (s *RPCServer) PreRun(args []byte, reply *[]byte) error {
	var tool aqsplugin.Tool
	if err := json.Unmarshal(args, &tool); err != nil {
		return err
	}
	if err := s.impl.PreRun(context.Background(), tool); err != nil {
		return err
	}
	out, err := json.Marshal(preRunReply{})
	*reply = out
	return err
}

func (s *RPCServer) ProcessRunAnnotations(args []byte, reply *[]byte) error {
	var run aqsplugin.Run
	if err := json.Unmarshal(args, &run); err != nil {
		return err
	}
	annotations, err := s.impl.ProcessRunAnnotations(context.Background(), run)
	r := processReply{Annotations: annotations}
	if err != nil {
		r.Errors = []string{err.Error()}
	}
	out, err := json.Marshal(r)
	*reply = out
	return err
}

// RPCClient runs on the host side.
type RPCClient struct {
	client *rpc.Client
}

var _ aqsplugin.Hooks = (*RPCClient)(nil)

func (c *RPCClient) call(ctx context.Context, method string, args any) ([]byte, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodePluginRuntimeCallFailure, "encoding request")
	}
	var reply []byte
	call := c.client.Go("Plugin."+method, payload, &reply, nil)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.Done:
	}
	if call.Error != nil {
		return nil, aqserr.Wrapf(call.Error, aqserr.CodePluginRuntimeCallFailure, "calling %s", method)
	}
	return reply, nil
}

func (c *RPCClient) PreRun(ctx context.Context, tool aqsplugin.Tool) error {
	_, err := c.call(ctx, "PreRun", tool)
	return err
}

func (c *RPCClient) ProcessRunAnnotations(ctx context.Context, run aqsplugin.Run) ([]aqsplugin.Annotation, error) {
	raw, err := c.call(ctx, "ProcessRunAnnotations", run)
	if err != nil {
		return nil, err
	}
	var r processReply
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, aqserr.Wrap(err, aqserr.CodePluginRuntimeCallFailure, "decoding reply")
	}
	if len(r.Errors) > 0 {
		return r.Annotations, aqserr.Errorf(aqserr.CodeAnnotationFileInvalidFormat, "%s", r.Errors[0])
	}
	return r.Annotations, nil
}
