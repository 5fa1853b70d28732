package dispatch

// registry maps every spec.md §6 wire identifier to its handler. A new
// Command Surface operation is added here and nowhere else.
func registry() map[string]handlerFunc {
	return map[string]handlerFunc{
		"create_terminal": handleCreateTerminal,
		"write_terminal":  handleWriteTerminal,
		"resize_terminal": handleResizeTerminal,
		"close_terminal":  handleCloseTerminal,

		"read_directory":         handleReadDirectory,
		"read_file":              handleReadFile,
		"write_file":             handleWriteFile,
		"get_home_directory":     handleGetHomeDirectory,
		"delete_path":            handleDeletePath,
		"reveal_in_finder":       handleRevealInFinder,
		"copy_paths_to_directory": handleCopyPathsToDirectory,
		"move_path":              handleMovePath,

		"get_git_status":       handleGetGitStatus,
		"get_git_file_status":  handleGetGitFileStatus,
		"get_commit_log":       handleGetCommitLog,
		"get_commit_diff":      handleGetCommitDiff,
		"push_commits":         handlePushCommits,
		"list_worktrees":       handleListWorktrees,
		"create_worktree":      handleCreateWorktree,
		"remove_worktree":      handleRemoveWorktree,
		"get_worktree_context": handleGetWorktreeContext,
		"list_branches":        handleListBranches,

		"detect_ports":            handleDetectPorts,
		"allocate_worktree_ports": handleAllocateWorktreePorts,
		"copy_files_with_ports":   handleCopyFilesWithPorts,
		"detect_compose_files":    handleDetectComposeFiles,
		"apply_compose_isolation": handleApplyComposeIsolation,

		"search_files":   handleSearchFiles,
		"search_content": handleSearchContent,

		"start_remote_server":      handleStartRemoteServer,
		"stop_remote_server":       handleStopRemoteServer,
		"is_remote_server_running": handleIsRemoteServerRunning,
		"generate_remote_qr_code":  handleGenerateRemoteQRCode,
		"regenerate_remote_token":  handleRegenerateRemoteToken,
	}
}
