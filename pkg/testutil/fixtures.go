package testutil

// Sample chezmoi output shared by tests
const (
	StatusOutput = " M .bashrc\nMM .gitconfig\n A .config/nvim/init.lua\n"

	ManagedJSON = `["/home/user/.bashrc","/home/user/.gitconfig","/home/user/.config/nvim/init.lua"]`

	DiffOutput = `diff --git a/.bashrc b/.bashrc
index 3b18e51..a2c4f10 100644
--- a/.bashrc
+++ b/.bashrc
@@ -1,2 +1,4 @@
 export EDITOR=vim
-alias ll='ls -l'
+alias ll='ls -la'
+alias gs='git status'
+alias gd='git diff'
diff --git a/.gitconfig b/.gitconfig
index 1111111..2222222 100644
--- a/.gitconfig
+++ b/.gitconfig
@@ -1 +1,3 @@
 [user]
+	name = User
+	email = user@example.com
`

	DataJSON = `{"chezmoi":{"os":"linux","arch":"amd64","hostname":"box"},"email":"user@example.com"}`

	DoctorOutput = `RESULT    CHECK                       MESSAGE
ok        version                     v2.52.1, commit 1a2b3c4
ok        source-dir                  ~/.local/share/chezmoi is a git working tree (clean)
warning   config-file                 ~/.config/chezmoi/chezmoi.toml: not found
info      age-command                 age not found in $PATH
`

	VersionOutput = "chezmoi version v2.52.1, commit 1a2b3c4, built at 2024-08-01T10:00:00Z, built by homebrew\n"
)
