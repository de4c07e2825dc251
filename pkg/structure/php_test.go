package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPHPClassWithMembers(t *testing.T) {
	src := `<?php

namespace App\Services;

use App\Contracts\Mailer;
use Illuminate\Support\Str as StringHelper;

class OrderService extends BaseService implements Mailer, \Countable
{
    public static $instances = 0;
    private ?string $label;

    public function __construct(private Mailer $mailer)
    {
    }

    protected static function fromArray(array $data): self
    {
        return new self();
    }

    public function send(): void
    {
    }
}

function format_total(float $amount): string
{
    return number_format($amount, 2);
}
`
	fs := ScanPHP("app/Services/OrderService.php", src)

	require.Len(t, fs.Classes, 1)
	cls := fs.Classes[0]
	assert.Equal(t, "OrderService", cls.Name)
	assert.Equal(t, "BaseService", cls.Extends)
	assert.Equal(t, []string{"Mailer", "Countable"}, cls.Implements)

	require.Len(t, cls.Methods, 3)
	assert.Equal(t, "__construct", cls.Methods[0].Name)
	assert.True(t, cls.Methods[0].Constructor)
	assert.True(t, cls.Methods[0].Magic)
	assert.Equal(t, "fromArray", cls.Methods[1].Name)
	assert.True(t, cls.Methods[1].Static)
	assert.Equal(t, "protected", cls.Methods[1].Visibility)
	assert.Equal(t, "send", cls.Methods[2].Name)

	require.Len(t, cls.Properties, 2)
	assert.Equal(t, "instances", cls.Properties[0].Name)
	assert.True(t, cls.Properties[0].Static)
	assert.Equal(t, "label", cls.Properties[1].Name)
	assert.Equal(t, "private", cls.Properties[1].Visibility)

	require.Len(t, fs.Functions, 1)
	assert.Equal(t, "format_total", fs.Functions[0].Name)

	require.Len(t, fs.Imports, 2)
	assert.Equal(t, `App\Contracts\Mailer`, fs.Imports[0].Source)
	assert.Equal(t, []string{"Mailer"}, fs.Imports[0].Specifiers)
	assert.Equal(t, []string{"StringHelper"}, fs.Imports[1].Specifiers)
}

func TestScanPHPSingleLineClass(t *testing.T) {
	fs := ScanPHP("compact.php", `<?php class Foo { function bar() { return 1; } }`)

	require.Len(t, fs.Classes, 1)
	assert.Equal(t, "Foo", fs.Classes[0].Name)
	require.Len(t, fs.Classes[0].Methods, 1)
	assert.Equal(t, "bar", fs.Classes[0].Methods[0].Name)
	assert.Empty(t, fs.Functions, "a method on one line is not a standalone function")
}

func TestScanPHPInterfaceAndTrait(t *testing.T) {
	src := `<?php
interface Shippable {
    public function ship(): void;
}
trait Timestamps {
    public function touch() {}
}
`
	fs := ScanPHP("contracts.php", src)

	require.Len(t, fs.Classes, 2)
	assert.Equal(t, "Shippable", fs.Classes[0].Name)
	assert.Equal(t, 2, fs.Classes[0].Line)
	assert.Equal(t, "Timestamps", fs.Classes[1].Name)
	require.Len(t, fs.Classes[1].Methods, 1)
	assert.Equal(t, "touch", fs.Classes[1].Methods[0].Name)
}

func TestScanPHPIncludes(t *testing.T) {
	src := `<?php
require_once 'bootstrap.php';
include("helpers/math.php");
`
	fs := ScanPHP("index.php", src)

	require.Len(t, fs.Imports, 2)
	assert.Equal(t, "bootstrap.php", fs.Imports[0].Source)
	assert.Equal(t, "helpers/math.php", fs.Imports[1].Source)
}

func TestScanPHPComments(t *testing.T) {
	src := `<?php
// line comment
# hash comment
/** doc start
 * continues
 */
$x = 1; // trailing comments are not recorded
`
	fs := ScanPHP("c.php", src)

	require.Len(t, fs.Comments, 5)
	assert.Equal(t, 2, fs.Comments[0].Line)
	assert.Equal(t, "line", string(fs.Comments[0].Style))
	assert.Equal(t, "hash comment", fs.Comments[1].Text)
	assert.Equal(t, "doc", string(fs.Comments[2].Style))
	assert.Equal(t, "doc", string(fs.Comments[4].Style))
}
