// sprite/shaders.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"github.com/mmp/spritebench/renderer"
)

// spriteFragmentShader is shared by all of the strategies.
const spriteFragmentShader = `#version 330 core
in vec2 UV;
in vec4 color;

out vec4 FragColor;

uniform sampler2D uTex;

void main() {
    FragColor = texture(uTex, UV) * color;
}
`

// buildMatrixGLSL computes translate(pos+origin) * rotate(rot) *
// translate(-origin) * scale(size), in the same expanded form as
// math.SpriteTransform.
const buildMatrixGLSL = `
mat3 buildMatrix(vec2 pos, vec2 size, vec2 origin, float rot) {
    float c = cos(rot);
    float s = sin(rot);
    // Columns.
    return mat3(c * size.x, s * size.x, 0.0,
                -s * size.y, c * size.y, 0.0,
                pos.x + origin.x - c * origin.x + s * origin.y,
                pos.y + origin.y - s * origin.x - c * origin.y, 1.0);
}
`

var naiveShader = renderer.ShaderDesc{
	Name: "naive",
	Vertex: `#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

out vec2 UV;
out vec4 color;

uniform mat3 uModel;
uniform mat4 uProjView;
uniform uint uColor;

void main() {
    UV = aUV;
    color = vec4(float((uColor >> 24) & 0xFFu), float((uColor >> 16) & 0xFFu),
                 float((uColor >> 8) & 0xFFu), float(uColor & 0xFFu)) / 255.0;
    gl_Position = uProjView * vec4(uModel * vec3(aPos, 1.0), 1.0);
}
`,
	Fragment: spriteFragmentShader,
}

var vertexBatchShader = renderer.ShaderDesc{
	Name: "batch",
	Vertex: `#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aColor;

out vec2 UV;
out vec4 color;

uniform mat4 uProjView;
uniform sampler2D uTex;

void main() {
    UV = aUV / vec2(textureSize(uTex, 0));
    color = aColor;
    gl_Position = uProjView * vec4(aPos, 0.0, 1.0);
}
`,
	Fragment: spriteFragmentShader,
}

var cpuInstanceShader = renderer.ShaderDesc{
	Name: "instance_cpu",
	Vertex: `#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in mat3 aInstModel; // locations 1, 2, 3
layout (location = 4) in vec2 aInstUV[4]; // locations 4, 5, 6, 7
layout (location = 8) in vec4 aInstColor;

out vec2 UV;
out vec4 color;

uniform mat4 uProjView;
uniform sampler2D uTex;

void main() {
    UV = aInstUV[gl_VertexID] / vec2(textureSize(uTex, 0));
    color = aInstColor;
    gl_Position = uProjView * vec4(aInstModel * vec3(aPos, 1.0), 1.0);
}
`,
	Fragment: spriteFragmentShader,
}

var gpuInstanceShader = renderer.ShaderDesc{
	Name: "instance",
	Vertex: `#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aInstPos;
layout (location = 2) in vec2 aInstSize;
layout (location = 3) in vec2 aInstOrigin;
layout (location = 4) in float aInstRotation;
layout (location = 5) in vec4 aInstColor;
layout (location = 6) in vec2 aInstUV[4]; // locations 6, 7, 8, 9

out vec2 UV;
out vec4 color;

uniform mat4 uProjView;
uniform sampler2D uTex;
` + buildMatrixGLSL + `
void main() {
    UV = aInstUV[gl_VertexID] / vec2(textureSize(uTex, 0));
    color = aInstColor;
    mat3 model = buildMatrix(aInstPos, aInstSize, aInstOrigin, aInstRotation);
    gl_Position = uProjView * vec4(model * vec3(aPos, 1.0), 1.0);
}
`,
	Fragment: spriteFragmentShader,
}

// geometryVertexShader passes each point's fields through to the
// geometry stage along with its full transformation.
const geometryVertexShader = `#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aSize;
layout (location = 2) in vec2 aOrigin;
layout (location = 3) in float aRotation;
layout (location = 4) in vec4 aColor;
layout (location = 5) in vec2 aUV[4]; // locations 5, 6, 7, 8

uniform mat4 uProjView;

out VertexStage {
    vec4 color;
    vec2 UV[4];
    mat4 mvp;
} vertex;
` + buildMatrixGLSL + `
void main() {
    vertex.color = aColor;
    for (int i = 0; i < 4; i++) {
        vertex.UV[i] = aUV[i];
    }
    mat3 m = buildMatrix(aPos, aSize, aOrigin, aRotation);
    vertex.mvp = uProjView * mat4(vec4(m[0].xy, 0.0, 0.0), vec4(m[1].xy, 0.0, 0.0),
                                  vec4(0.0, 0.0, 1.0, 0.0), vec4(m[2].xy, 0.0, 1.0));
}
`

// geometryShader expands each point into a 4-vertex strip with corners
// in the same order as the instanced strategies' unit quad.
const geometryShader = `#version 330 core
layout (points) in;
layout (triangle_strip, max_vertices = 4) out;

in VertexStage {
    vec4 color;
    vec2 UV[4];
    mat4 mvp;
} vertex[];

out vec2 UV;
out vec4 color;

uniform sampler2D uTex;

void main() {
    const vec2 corners[4] = vec2[4](
        vec2(0.0, 0.0), // bottom left
        vec2(0.0, 1.0), // top left
        vec2(1.0, 0.0), // bottom right
        vec2(1.0, 1.0)  // top right
    );

    vec2 texSize = vec2(textureSize(uTex, 0));
    for (int i = 0; i < 4; i++) {
        gl_Position = vertex[0].mvp * vec4(corners[i], 0.0, 1.0);
        UV = vertex[0].UV[i] / texSize;
        color = vertex[0].color;
        EmitVertex();
    }
    EndPrimitive();
}
`

var geometryShaderDesc = renderer.ShaderDesc{
	Name:     "geometry",
	Vertex:   geometryVertexShader,
	Geometry: geometryShader,
	Fragment: spriteFragmentShader,
}

var geometryBatchShaderDesc = renderer.ShaderDesc{
	Name:     "geometry_batch",
	Vertex:   geometryVertexShader,
	Geometry: geometryShader,
	Fragment: spriteFragmentShader,
}
