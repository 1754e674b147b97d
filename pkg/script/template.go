package script

// The generated script aggregates backup failures into FAILURE instead of
// aborting on the first one, so every service block gets its attempt. The
// forget blocks are best-effort and never affect the exit code.
const scriptTemplateText = `#!/bin/bash
set -euo pipefail

# Configuration
RESTIC_PASSWD="{{ .PasswordFile }}"
RESTIC_EXCLUDE_FILE="{{ .ExcludeFile }}"
BACKUP_REPO="{{ .Repository }}"
KEEP_OPTIONS="{{ join " " .KeepFlags }}"
HOST_TAG="{{ .Hostname }}"
HEALTHCHECK_URL="{{ .HealthcheckURL }}"

FAILURE=0
LOGFILE="{{ .LogFile }}"

exec >> "$LOGFILE" 2>&1

echo "=== Backup started: $(date) on $HOST_TAG ==="
if [ -n "$HEALTHCHECK_URL" ]; then
    curl -fsS --retry 3 "$HEALTHCHECK_URL/start" >/dev/null 2>&1 || true
fi

# Initialize repository if it doesn't exist
if ! {{ .ResticBinary }} -p "$RESTIC_PASSWD" -r "$BACKUP_REPO" cat config >/dev/null 2>&1; then
    echo "Initializing restic repository at $BACKUP_REPO"
    {{ .ResticBinary }} -p "$RESTIC_PASSWD" -r "$BACKUP_REPO" init
fi

# Unlock stale locks
{{ .ResticBinary }} -p "$RESTIC_PASSWD" -r "$BACKUP_REPO" unlock || true

# Backup Sources
{{ range .Services }}
echo "Backing up {{ .Name }}: {{ .Path }}"
if ! {{ $.ResticBinary }} -p "$RESTIC_PASSWD" -r "$BACKUP_REPO" \
    --host "$HOST_TAG" \
    --tag "{{ .Name }}" \
    --exclude-caches \
    --exclude-file="$RESTIC_EXCLUDE_FILE" \
    backup "{{ .Path }}"; then
    FAILURE=1
fi

echo "{{ .Name }} backup complete: $({{ $.ResticBinary }} -p "$RESTIC_PASSWD" -r "$BACKUP_REPO" stats --host "$HOST_TAG" --tag "{{ .Name }}")"
{{ end }}
# Forget/Prune
{{ range .Services }}
{{ $.ResticBinary }} -p "$RESTIC_PASSWD" -r "$BACKUP_REPO" \
    forget \
    --host "$HOST_TAG" \
    --tag "{{ .Name }}" \
    --group-by host,tags \
    $KEEP_OPTIONS \
    --cleanup-cache || true
{{ end }}
# Ping healthcheck
if [ "$FAILURE" -eq 0 ] && [ -n "$HEALTHCHECK_URL" ]; then
    curl -fsS --retry 3 "$HEALTHCHECK_URL" >/dev/null 2>&1 || true
fi

echo "=== Backup finished: $(date) ==="
exit $FAILURE
`
