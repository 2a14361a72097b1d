package shell

var DefaultShell Shell = new(shell)

func CommandExists(cmd string) bool {
	return DefaultShell.CommandExists(cmd)
}
