package sqlparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

func configFor(d Dialect) Config {
	cfg := DefaultConfig()
	cfg.Dialect = d
	return cfg
}

func split(t *testing.T, cfg Config, script string) []Command {
	t.Helper()
	p := NewScriptParser(cfg)
	defer p.Close()
	p.SetScript(script)
	commands, err := p.Commands()
	require.NoError(t, err)
	return commands
}

func texts(commands []Command) []string {
	var result []string
	for _, c := range commands {
		result = append(result, c.Text)
	}
	return result
}

func TestScriptParser_Split(t *testing.T) {
	emptyLines := DefaultConfig()
	emptyLines.EmptyLineIsDelimiter = true
	pgEmptyLines := configFor(DialectPostgres)
	pgEmptyLines.EmptyLineIsDelimiter = true
	oracleEmptyLines := configFor(DialectOracle)
	oracleEmptyLines.EmptyLineIsDelimiter = true
	mysqlEmptyLines := configFor(DialectMySQL)
	mysqlEmptyLines.EmptyLineIsDelimiter = true

	tests := []struct {
		name     string
		cfg      Config
		script   string
		expected []string
	}{
		{
			name:     "standard delimiter",
			cfg:      DefaultConfig(),
			script:   "select 1;\nselect 2;\n  select 3  ;\n",
			expected: []string{"select 1", "select 2", "select 3"},
		},
		{
			name:     "delimiter inside literals",
			cfg:      DefaultConfig(),
			script:   "select ';' from dual;\nselect 'a'';b', \"x;y\" from dual;",
			expected: []string{"select ';' from dual", `select 'a'';b', "x;y" from dual`},
		},
		{
			name:     "comments before a statement are kept",
			cfg:      DefaultConfig(),
			script:   "-- first\nselect 1;\n/* c */ select 2; -- trailing\n",
			expected: []string{"-- first\nselect 1", "/* c */ select 2"},
		},
		{
			name:     "comments after a delimiter belong to no command",
			cfg:      DefaultConfig(),
			script:   "select 1; -- one\n-- two\nselect 2; /* three */\n",
			expected: []string{"select 1", "-- two\nselect 2"},
		},
		{
			name:     "empty statements",
			cfg:      DefaultConfig(),
			script:   ";;select 1;;\n;",
			expected: []string{"select 1"},
		},
		{
			name:     "no final delimiter",
			cfg:      DefaultConfig(),
			script:   "select 1;\nselect 2\n",
			expected: []string{"select 1", "select 2"},
		},
		{
			name:     "comment only",
			cfg:      DefaultConfig(),
			script:   "-- nothing here\n/* at all */\n",
			expected: nil,
		},
		{
			name:     "empty line delimiter",
			cfg:      emptyLines,
			script:   "select 1\n\nselect 2\nfrom t\n  \n\nselect 3;",
			expected: []string{"select 1", "select 2\nfrom t", "select 3"},
		},
		{
			name:     "oracle procedure",
			cfg:      configFor(DialectOracle),
			script:   "create or replace procedure p is\nbegin\n  null;\nend;\n/\nselect 1 from dual;\n",
			expected: []string{"create or replace procedure p is\nbegin\n  null;\nend;", "select 1 from dual"},
		},
		{
			name:     "oracle anonymous block",
			cfg:      configFor(DialectOracle),
			script:   "BEGIN\n  dbms_output.put_line('a;b');\nEND;\n  /  \ncommit;",
			expected: []string{"BEGIN\n  dbms_output.put_line('a;b');\nEND;", "commit"},
		},
		{
			name:     "oracle slash after plain statement",
			cfg:      configFor(DialectOracle),
			script:   "select 8 / 2 from dual\n/\n",
			expected: []string{"select 8 / 2 from dual"},
		},
		{
			name:     "oracle block keeps blank lines",
			cfg:      oracleEmptyLines,
			script:   "begin\n  null;\n\n  null;\nend;\n/\n",
			expected: []string{"begin\n  null;\n\n  null;\nend;"},
		},
		{
			name:     "sql server go",
			cfg:      configFor(DialectMSSQL),
			script:   "SET X ON\nGO\nSET Y ON\nGO",
			expected: []string{"SET X ON", "SET Y ON"},
		},
		{
			name:     "sql server procedure",
			cfg:      configFor(DialectMSSQL),
			script:   "create procedure p as\nbegin\n  select 1;\n  select 2;\nend\ngo\nselect 3;\n",
			expected: []string{"create procedure p as\nbegin\n  select 1;\n  select 2;\nend", "select 3"},
		},
		{
			name:     "sql server transaction",
			cfg:      configFor(DialectMSSQL),
			script:   "begin tran;\nupdate t set a = 1;\ncommit;",
			expected: []string{"begin tran", "update t set a = 1", "commit"},
		},
		{
			name:     "sql server goto is not go",
			cfg:      configFor(DialectMSSQL),
			script:   "select 1\ngoto x\n",
			expected: []string{"select 1\ngoto x"},
		},
		{
			name:     "sql server go inside brackets",
			cfg:      configFor(DialectMSSQL),
			script:   "select [\ngo\n] from t\ngo\n",
			expected: []string{"select [\ngo\n] from t"},
		},
		{
			name:     "postgres dollar quotes",
			cfg:      configFor(DialectPostgres),
			script:   "create function f() returns int as $$\nselect 1;\n$$ language sql;\nselect 2;",
			expected: []string{"create function f() returns int as $$\nselect 1;\n$$ language sql", "select 2"},
		},
		{
			name:     "postgres tagged dollar quotes",
			cfg:      configFor(DialectPostgres),
			script:   "do $a$ begin perform $$;$$; end $a$;\nselect 1;",
			expected: []string{"do $a$ begin perform $$;$$; end $a$", "select 1"},
		},
		{
			name:     "postgres blank line inside dollar quote",
			cfg:      pgEmptyLines,
			script:   "do $$\nbegin\n\n  perform 1;\nend\n$$;\n\nselect 1\n\nselect 2",
			expected: []string{"do $$\nbegin\n\n  perform 1;\nend\n$$", "select 1", "select 2"},
		},
		{
			name:     "mysql delimiter command",
			cfg:      configFor(DialectMySQL),
			script:   "DELIMITER //\nCREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND//\nDELIMITER ;\nSELECT 2;\n",
			expected: []string{"CREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND", "SELECT 2"},
		},
		{
			name:     "mysql delimiter after a word",
			cfg:      configFor(DialectMySQL),
			script:   "DELIMITER $$\nCREATE FUNCTION f() RETURNS INT\nBEGIN\n  RETURN 1;\nEND$$\nSELECT f()$$",
			expected: []string{"CREATE FUNCTION f() RETURNS INT\nBEGIN\n  RETURN 1;\nEND", "SELECT f()"},
		},
		{
			name:     "mysql comment after a delimiter",
			cfg:      configFor(DialectMySQL),
			script:   "select 1; # c;\nselect 2;",
			expected: []string{"select 1", "select 2"},
		},
		{
			name:     "mysql block keeps blank lines",
			cfg:      mysqlEmptyLines,
			script:   "DELIMITER //\nCREATE PROCEDURE p() BEGIN\nselect 1;\n\nselect 2; END//\nselect 3\n\nselect 4//",
			expected: []string{"CREATE PROCEDURE p() BEGIN\nselect 1;\n\nselect 2; END", "select 3", "select 4"},
		},
		{
			name:     "mysql backslash escapes",
			cfg:      configFor(DialectMySQL),
			script:   "select 'it\\'s;' # done;\n;select 2;",
			expected: []string{"select 'it\\'s;' # done;", "select 2"},
		},
		{
			name:     "unterminated string",
			cfg:      DefaultConfig(),
			script:   "select 1;\nselect 'unterminated;\nselect 3;",
			expected: []string{"select 1", "select 'unterminated;\nselect 3;"},
		},
		{
			name:     "unterminated block",
			cfg:      configFor(DialectOracle),
			script:   "begin\n  null;\nend;",
			expected: []string{"begin\n  null;\nend;"},
		},
		{
			name:     "unterminated comment",
			cfg:      DefaultConfig(),
			script:   "select 1; /* open",
			expected: []string{"select 1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands := split(t, tt.cfg, tt.script)
			assert.Equal(t, tt.expected, texts(commands))
			assertConsistent(t, tt.script, commands)
		})
	}
}

// assertConsistent checks that the spans are ordered, match the texts and
// together with the separators between them make up the script.
func assertConsistent(t *testing.T, script string, commands []Command) {
	t.Helper()
	var rebuilt strings.Builder
	prev := 0
	for i, c := range commands {
		assert.Equal(t, i, c.Index)
		require.LessOrEqual(t, prev, c.Start, "command %d overlaps", i)
		require.Less(t, c.Start, c.End)
		require.LessOrEqual(t, c.End, c.DelimiterStart)
		require.LessOrEqual(t, c.DelimiterStart, c.DelimiterEnd)
		assert.Equal(t, script[c.Start:c.End], c.Text)
		assert.Equal(t, strings.Count(script[:c.Start], "\n")+1, c.Line)
		if !c.Delimiter.IsEmpty() {
			assert.True(t, c.Delimiter.Matches(script[c.DelimiterStart:c.DelimiterEnd]))
		}
		rebuilt.WriteString(script[prev:c.Start])
		rebuilt.WriteString(c.Text)
		rebuilt.WriteString(script[c.End:c.DelimiterEnd])
		prev = c.DelimiterEnd
	}
	rebuilt.WriteString(script[prev:])
	assert.Equal(t, script, rebuilt.String())
}

func TestScriptParser_NStatements(t *testing.T) {
	var statements []string
	for i := 0; i < 50; i++ {
		statements = append(statements, "insert into t values ("+strings.Repeat("1,", i)+"0)")
	}
	script := strings.Join(statements, ";\n") + ";\n"
	assert.Equal(t, statements, texts(split(t, DefaultConfig(), script)))
}

func TestScriptParser_Delimiters(t *testing.T) {
	commands := split(t, configFor(DialectOracle), "select 1 from dual;\nbegin null; end;\n/\nselect 2 from dual")
	require.Len(t, commands, 3)
	assert.Equal(t, sqldocument.Standard, commands[0].Delimiter)
	assert.Equal(t, sqldocument.OracleDelimiter, commands[1].Delimiter)
	assert.True(t, commands[2].Delimiter.IsEmpty())
	assert.Equal(t, commands[2].End, commands[2].DelimiterEnd)
	assert.Equal(t, 4, commands[2].Line)
}

func TestScriptParser_Include(t *testing.T) {
	script := "@setup.sql\nselect 1;\n-- helper\n@other.sql;\n"
	commands := split(t, DefaultConfig(), script)

	assert.Equal(t, []string{"@setup.sql", "select 1", "@other.sql"}, texts(commands))
	assert.True(t, commands[0].Include)
	assert.False(t, commands[1].Include)
	assert.True(t, commands[2].Include)
	assert.True(t, commands[0].Delimiter.IsEmpty())
	assert.Equal(t, sqldocument.Standard, commands[2].Delimiter)
	assert.Equal(t, 4, commands[2].Line)
	assertConsistent(t, script, commands)
}

func TestScriptParser_IncludeWithComment(t *testing.T) {
	script := "@a.sql -- note\n@b.sql; /* note */\nselect 1;\n"
	commands := split(t, DefaultConfig(), script)

	assert.Equal(t, []string{"@a.sql", "@b.sql", "select 1"}, texts(commands))
	assert.True(t, commands[0].Include)
	assert.True(t, commands[1].Include)
	assert.Equal(t, sqldocument.Standard, commands[1].Delimiter)
	assertConsistent(t, script, commands)
}

func TestScriptParser_SetDelimiter(t *testing.T) {
	p := NewScriptParser(DefaultConfig())
	defer p.Close()
	p.SetScript("select 1 $$ select 2; $$\nselect 3\n/\nselect 4\n/")

	n, err := p.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p.SetDelimiter(sqldocument.Delimiter{Text: "$$"})
	commands, err := p.Commands()
	require.NoError(t, err)
	assert.Equal(t, []string{"select 1", "select 2;", "select 3\n/\nselect 4\n/"}, texts(commands))

	p.SetAlternateDelimiter(sqldocument.OracleDelimiter)
	commands, err = p.Commands()
	require.NoError(t, err)
	assert.Equal(t, []string{"select 1", "select 2;", "select 3", "select 4"}, texts(commands))

	d, err := p.DelimiterUsed(3)
	require.NoError(t, err)
	assert.Equal(t, sqldocument.OracleDelimiter, d)
}

func TestScriptParser_SetEmptyLineIsDelimiter(t *testing.T) {
	p := NewScriptParser(DefaultConfig())
	defer p.Close()
	p.SetScript("select 1\n\nselect 2")

	n, err := p.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p.SetEmptyLineIsDelimiter(true)
	n, err = p.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestScriptParser_CommandIndexAt(t *testing.T) {
	script := "select 1;\n\nselect 2;\n"
	p := NewScriptParser(DefaultConfig())
	defer p.Close()
	p.SetScript(script)

	tests := []struct {
		offset   int
		expected int
	}{
		{0, 0},
		{5, 0},
		{8, 0},   // the delimiter
		{9, 0},   // right after the delimiter
		{10, -1}, // blank line
		{11, 1},
		{19, 1},
		{20, 1},
		{21, -1}, // end of script, after the last newline
		{22, -1}, // past the end
		{-1, -1},
	}
	for _, tt := range tests {
		for i := 0; i < 2; i++ {
			idx, err := p.CommandIndexAt(tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, idx, "offset %d", tt.offset)
		}
	}
}

func TestScriptParser_CommandIndexAtIsMonotonic(t *testing.T) {
	script := "select 1;\n-- c\nselect 2\n/* x */;\n\n\nselect 3"
	p := NewScriptParser(DefaultConfig())
	defer p.Close()
	p.SetScript(script)
	commands, err := p.Commands()
	require.NoError(t, err)

	for _, c := range commands {
		for offset := c.Start; offset <= c.DelimiterEnd; offset++ {
			idx, err := p.CommandIndexAt(offset)
			require.NoError(t, err)
			assert.Equal(t, c.Index, idx, "offset %d", offset)
		}
	}
}

func TestScriptParser_IndexError(t *testing.T) {
	p := NewScriptParser(DefaultConfig())
	defer p.Close()
	p.SetScript("select 1;")

	_, err := p.Command(1)
	var indexErr *source.IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, 1, indexErr.Len)

	_, err = p.DelimiterUsed(-1)
	assert.ErrorAs(t, err, &indexErr)
}

func TestScriptParser_NoScript(t *testing.T) {
	p := NewScriptParser(DefaultConfig())
	_, err := p.Size()
	assert.ErrorIs(t, err, ErrNoScript)
	assert.NoError(t, p.Close())
}

func TestScriptParser_SetFile(t *testing.T) {
	script := "select 'å;ø' from t;\n" + strings.Repeat("select 'ünïcødé' from dual;\n", 20)
	path := filepath.Join(t.TempDir(), "script.sql")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	for _, threshold := range []int64{1, DefaultFileThreshold} {
		cfg := DefaultConfig()
		cfg.FileThreshold = threshold
		cfg.ChunkSize = 16

		p := NewScriptParser(cfg)
		require.NoError(t, p.SetFile(path, nil))
		commands, err := p.Commands()
		require.NoError(t, err)
		assert.Len(t, commands, 21)
		assert.Equal(t, "select 'å;ø' from t", commands[0].Text)
		assertConsistent(t, script, commands)
		require.NoError(t, p.Close())
		require.NoError(t, p.Close())
	}
}

func TestScriptParser_SetFileMissing(t *testing.T) {
	p := NewScriptParser(DefaultConfig())
	err := p.SetFile(filepath.Join(t.TempDir(), "missing.sql"), nil)
	var ioErr *source.IOError
	assert.ErrorAs(t, err, &ioErr)
}
