package commands

import (
	"context"
	"fmt"
)

// WorkspaceCmd groups the workspace subcommands.
type WorkspaceCmd struct {
	Select WorkspaceSelectCmd `cmd:"" help:"Switch to an existing workspace"`
	New    WorkspaceNewCmd    `cmd:"" help:"Create and switch to a workspace"`
	Delete WorkspaceDeleteCmd `cmd:"" help:"Delete a workspace"`
	Show   WorkspaceShowCmd   `cmd:"" help:"Print the current workspace"`
	List   WorkspaceListCmd   `cmd:"" help:"List workspaces"`
}

type WorkspaceSelectCmd struct {
	Name string `arg:"" help:"Workspace name"`
}

func (w *WorkspaceSelectCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}
	_, err = tf.SelectWorkspace(context.Background(), w.Name)
	return err
}

type WorkspaceNewCmd struct {
	Name string `arg:"" help:"Workspace name"`
}

func (w *WorkspaceNewCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}
	_, err = tf.NewWorkspace(context.Background(), w.Name)
	return err
}

type WorkspaceDeleteCmd struct {
	Name string `arg:"" help:"Workspace name"`
}

func (w *WorkspaceDeleteCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}
	_, err = tf.DeleteWorkspace(context.Background(), w.Name)
	return err
}

type WorkspaceShowCmd struct{}

func (w *WorkspaceShowCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}
	name, err := tf.ShowWorkspace(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

type WorkspaceListCmd struct{}

func (w *WorkspaceListCmd) Run(_ *Global, root *CLI) error {
	_, tf, err := loadAndBuild(root.Config)
	if err != nil {
		return err
	}
	names, err := tf.ListWorkspaces(context.Background())
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
